package driven

// IDGenerator defines the driven port for collision-resistant account
// identifiers. NewID never returns model.ReservoirID; that value is reserved.
type IDGenerator interface {
	NewID() string
}
