package runtime

// BorrowState tracks the outstanding references to one binding. The zero
// value is Free.
type BorrowState struct {
	Shared    int
	Exclusive bool
}

func (b BorrowState) Free() bool {
	return b.Shared == 0 && !b.Exclusive
}

// CheckShared reports whether a shared borrow could be taken now.
func (b BorrowState) CheckShared() error {
	if b.Exclusive {
		return NewError(ErrorBorrow, "cannot take immutable reference while variable already mutably borrowed")
	}
	return nil
}

// CheckExclusive reports whether an exclusive borrow could be taken now.
func (b BorrowState) CheckExclusive() error {
	if b.Exclusive {
		return NewError(ErrorBorrow, "variable already mutably borrowed")
	}
	if b.Shared > 0 {
		return NewError(ErrorBorrow, "cannot take mutable reference while variable already borrowed")
	}
	return nil
}

func (b *BorrowState) TryBorrowShared() error {
	if err := b.CheckShared(); err != nil {
		return err
	}
	b.Shared++
	return nil
}

func (b *BorrowState) TryBorrowExclusive() error {
	if err := b.CheckExclusive(); err != nil {
		return err
	}
	b.Exclusive = true
	return nil
}

// Release drops one borrow of the given mode. Releasing a mode that is not
// held is a no-op.
func (b *BorrowState) Release(exclusive bool) {
	if exclusive {
		b.Exclusive = false
		return
	}
	if b.Shared > 0 {
		b.Shared--
	}
}

func (b BorrowState) String() string {
	switch {
	case b.Exclusive:
		return "exclusive"
	case b.Shared > 0:
		return "shared"
	default:
		return "free"
	}
}
