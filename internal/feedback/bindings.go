package feedback

// Bindings collects subscriptions made for one scope so they can be
// released together. The zero value is ready to use.
type Bindings struct {
	subs []*Subscription
}

// Add records subscriptions in the scope
func (b *Bindings) Add(subs ...*Subscription) {
	for _, s := range subs {
		if s != nil {
			b.subs = append(b.subs, s)
		}
	}
}

// Release unsubscribes everything recorded and empties the scope
func (b *Bindings) Release() {
	for _, s := range b.subs {
		s.Unsubscribe()
	}
	b.subs = nil
}

// Len returns the number of recorded subscriptions
func (b *Bindings) Len() int {
	return len(b.subs)
}
