package fbx

import "iter"

// All returns an iterator over the Cursor's remaining events, stopping
// after the first error (which the iterator's second yielded value
// carries) or after EndFbx. Range-over-func breaks the loop itself as
// soon as the consumer stops ranging; All does not retry past a
// terminal failure.
func (c *Cursor) All() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := c.Next()
			if !yield(ev, err) {
				return
			}
			if err != nil || ev.Kind == EventEndFbx {
				return
			}
		}
	}
}
