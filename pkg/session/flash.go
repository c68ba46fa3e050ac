package session

import "slices"

const flashPrefix = "_f_"

type flashOptions struct {
	queue      string
	duplicates bool
}

// FlashOption configures Flash.
type FlashOption func(*flashOptions)

// InQueue selects a named flash queue instead of the default one.
func InQueue(queue string) FlashOption {
	return func(o *flashOptions) {
		o.queue = queue
	}
}

// NoDuplicates skips the message when the queue already holds it.
func NoDuplicates() FlashOption {
	return func(o *flashOptions) {
		o.duplicates = false
	}
}

// Flash appends msg to a flash queue.
func (s *Session) Flash(msg string, opts ...FlashOption) {
	o := flashOptions{duplicates: true}
	for _, opt := range opts {
		opt(&o)
	}

	key := flashPrefix + o.queue
	s.mutate(func(state map[string]any) {
		messages := flashMessages(state[key])
		if !o.duplicates && slices.Contains(messages, msg) {
			return
		}
		state[key] = append(messages, msg)
	})
}

// PopFlash removes and returns the messages of queue.
func (s *Session) PopFlash(queue string) []string {
	v, _ := s.Pop(flashPrefix + queue)
	return flashMessages(v)
}

// PeekFlash returns the messages of queue without removing them.
func (s *Session) PeekFlash(queue string) []string {
	v, _ := s.Get(flashPrefix + queue)
	return flashMessages(v)
}

// flashMessages normalizes a stored queue. Decoded records hold []any.
func flashMessages(v any) []string {
	switch list := v.(type) {
	case []string:
		return slices.Clone(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return []string{}
	}
}
