// Package reconcile applies directory entries to the local store.
//
// Reconcile decides between insert and update for the primary record and
// SyncInstructions replaces the dependent install instructions. Engine
// chains identity derivation, classification and both writes for one entry
// inside a single store transaction.
//
//	engine, err := reconcile.NewEngine(st)
//	applied, err := engine.Apply(ctx, entry)
//	fmt.Println(applied.ID, applied.Outcome)
package reconcile
