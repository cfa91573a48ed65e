package latent

// Binder bypasses tag scanning in Bind. Generated code implements it to wire
// fields directly; a hand-written implementation can apply rules that tags
// cannot express.
type Binder interface {
	// BindSecrets assigns the receiver's cell fields from the store.
	BindSecrets(store *Store) error
}
