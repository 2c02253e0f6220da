package feature

import "errors"

// Session is the per-document surface the controller drives. A session owns
// its feature state; the controller only reads the current state and invokes
// the session's activation entry points.
type Session interface {
	// FeatureActive reports whether the feature is currently active.
	FeatureActive(id ID) bool

	// ActivateFeature invokes the feature's activation entry point. Entry
	// points are not required to be internally idempotent; callers must not
	// invoke one when the feature is already active.
	ActivateFeature(id ID) error

	// DeactivateFeature invokes the feature's deactivation entry point.
	DeactivateFeature(id ID) error
}

// Controller applies a desired enabled/disabled state to sessions.
type Controller struct {
	// OnEnabled, when set, runs once after every enabling batch.
	OnEnabled func(s Session, ids []ID)
}

// Apply brings every feature in ids to the desired state on s. Features
// already in the desired state are skipped, so applying the same batch twice
// produces exactly one activation side effect per feature. Errors from entry
// points are collected; the remaining features are still processed.
func (c *Controller) Apply(s Session, ids []ID, enable bool) error {
	var errs []error
	for _, id := range ids {
		if s.FeatureActive(id) == enable {
			continue
		}
		var err error
		if enable {
			err = s.ActivateFeature(id)
		} else {
			err = s.DeactivateFeature(id)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if enable && c.OnEnabled != nil {
		c.OnEnabled(s, ids)
	}
	return errors.Join(errs...)
}
