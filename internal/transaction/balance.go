package transaction

// Balance returns initial plus the signed amount of every transaction.
// The result is always recomputed from its inputs.
func Balance(initial int64, txs []*Transaction) int64 {
	total := initial
	for _, tx := range txs {
		total += tx.Signed()
	}

	return total
}

// Reconcile derives the initial balance from a balance the user observed today and the
// transactions already reflected in it, so that Balance(Reconcile(b, recent), recent) == b.
func Reconcile(reported int64, recent []*Transaction) int64 {
	return reported - Balance(0, recent)
}
