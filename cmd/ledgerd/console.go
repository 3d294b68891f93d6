package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/castlebank/ledgerstore/internal/application"
	"github.com/castlebank/ledgerstore/internal/domain/model"
)

// console is a line-oriented front end over the store services, for
// operating the ledger without any network surface.
type console struct {
	accounts  *application.AccountService
	ledger    *application.Ledger
	transfers *application.TransferService
	out       io.Writer
}

const consoleHelp = `commands:
  create <name> <password>          create an account
  verify <name> <password>          check credentials
  deposit <name> <amount> [memo]    move money from the reservoir
  withdraw <name> <amount> [memo]   move money to the reservoir
  transfer <from> <to> <amount> [memo]
  balance <name>                    recomputed balance
  history <name>                    transfer log entries for the account
  list                              all accounts
  quit`

// run reads commands until EOF, a quit command, or ctx cancellation.
func (c *console) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(c.out, consoleHelp)
	for {
		fmt.Fprint(c.out, "> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if done := c.dispatch(line); done {
				return
			}
		}
	}
}

// dispatch executes one command line. Returns true on quit.
func (c *console) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(c.out, consoleHelp)
	case "create":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "usage: create <name> <password>")
			break
		}
		id, err := c.accounts.Create(args[0], args[1])
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
			break
		}
		fmt.Fprintln(c.out, "created", id)
	case "verify":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "usage: verify <name> <password>")
			break
		}
		acct, res, err := c.accounts.Verify(args[0], args[1])
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
			break
		}
		if !res.OK() {
			fmt.Fprintln(c.out, "denied:", strings.Join(res.Failures, "; "))
			break
		}
		fmt.Fprintln(c.out, "ok", acct.ID)
	case "deposit", "withdraw":
		if len(args) < 2 {
			fmt.Fprintf(c.out, "usage: %s <name> <amount> [memo]\n", cmd)
			break
		}
		from, to := model.ReservoirID, args[0]
		if cmd == "withdraw" {
			from, to = args[0], model.ReservoirID
		}
		c.move(from, to, args[1], strings.Join(args[2:], " "))
	case "transfer":
		if len(args) < 3 {
			fmt.Fprintln(c.out, "usage: transfer <from> <to> <amount> [memo]")
			break
		}
		c.move(args[0], args[1], args[2], strings.Join(args[3:], " "))
	case "balance":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "usage: balance <name>")
			break
		}
		id, ok := c.resolve(args[0])
		if !ok {
			break
		}
		bal, err := c.ledger.BalanceOf(id, true)
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
			break
		}
		fmt.Fprintln(c.out, bal)
	case "history":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "usage: history <name>")
			break
		}
		id, ok := c.resolve(args[0])
		if !ok {
			break
		}
		for _, t := range c.ledger.TransfersFor(id) {
			fmt.Fprintf(c.out, "%s  %s -> %s  %d  %s\n",
				t.Time.Format("2006-01-02 15:04:05"), t.From, t.To, t.Amount, t.Memo)
		}
	case "list":
		for _, a := range c.accounts.ListAll() {
			fmt.Fprintf(c.out, "%s  %s  %d\n", a.ID, a.Name, a.Balance)
		}
	default:
		fmt.Fprintf(c.out, "unknown command %q (try help)\n", cmd)
	}
	return false
}

// move parses the amount and runs one transfer. Parties named "@" mean the
// reservoir; anything else is resolved as an account name.
func (c *console) move(from, to, amountArg, memo string) {
	amount, err := strconv.ParseInt(amountArg, 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "error: amount must be an integer")
		return
	}
	fromID, ok := c.resolve(from)
	if !ok {
		return
	}
	toID, ok := c.resolve(to)
	if !ok {
		return
	}
	res, err := c.transfers.Transfer(fromID, toID, amount, memo)
	if err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return
	}
	if res.Declined {
		fmt.Fprintln(c.out, "declined: insufficient funds, balance", res.FromBalance)
		return
	}
	fmt.Fprintf(c.out, "ok  from=%d to=%d\n", res.FromBalance, res.ToBalance)
}

// resolve maps a console argument to an account id. The reservoir is spelled
// "@" or by its sentinel id.
func (c *console) resolve(name string) (string, bool) {
	if name == "@" || name == model.ReservoirID {
		return model.ReservoirID, true
	}
	acct := c.accounts.GetByName(name)
	if acct == nil {
		fmt.Fprintf(c.out, "error: no account named %q\n", name)
		return "", false
	}
	return acct.ID, true
}
