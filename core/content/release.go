package content

import "errors"

// ReleaseSet tracks releasable resources until their owner is done with them.
// It is not safe for concurrent use.
type ReleaseSet struct {
	items []Releasable
}

// AddIfReleasable tracks c when it implements Releasable and reports whether it did.
func (s *ReleaseSet) AddIfReleasable(c any) bool {
	r, ok := c.(Releasable)
	if !ok {
		return false
	}
	s.items = append(s.items, r)
	return true
}

// Len returns the number of tracked resources.
func (s *ReleaseSet) Len() int {
	return len(s.items)
}

// ReleaseAll releases every tracked resource once and empties the set.
// All resources are attempted even when some fail; failures are joined.
func (s *ReleaseSet) ReleaseAll() error {
	items := s.items
	s.items = nil

	var errs []error
	for _, r := range items {
		if err := r.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
