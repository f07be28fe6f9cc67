package booking

import "context"

// BlockingCounter counts ACTIVE reservations on a court dated from onward.
type BlockingCounter interface {
	CountBlocking(ctx context.Context, courtID int64, from Date) (int64, error)
}

// DeletionGuard refuses to delete a court with pending reservations.
type DeletionGuard struct {
	Counter BlockingCounter
}

func (g DeletionGuard) Check(ctx context.Context, courtID int64, today Date) error {
	n, err := g.Counter.CountBlocking(ctx, courtID, today)
	if err != nil {
		return err
	}
	if n > 0 {
		return reservationsPending(n)
	}
	return nil
}
