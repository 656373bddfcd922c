package feed

// Trigger is the proximity subscription for "last card became visible". At
// most one binding is live at a time; binding again releases the previous
// one first, and a released binding never fires.
type Trigger struct {
	key      string
	live     bool
	bindings int
	releases int
}

// Bind subscribes the trigger to the card identified by key.
func (t *Trigger) Bind(key string) {
	t.Release()
	t.key = key
	t.live = true
	t.bindings++
}

// Release tears the current binding down. Releasing an unbound trigger is a no-op.
func (t *Trigger) Release() {
	if !t.live {
		return
	}
	t.live = false
	t.key = ""
	t.releases++
}

// Fires reports whether a visibility event for key reaches the live binding.
func (t *Trigger) Fires(key string) bool {
	return t.live && key != "" && t.key == key
}

// Active returns the bound key, if any.
func (t *Trigger) Active() (string, bool) {
	return t.key, t.live
}

// Live is the number of outstanding bindings. It is always 0 or 1.
func (t *Trigger) Live() int {
	return t.bindings - t.releases
}

// Generation counts every binding ever made.
func (t *Trigger) Generation() int {
	return t.bindings
}
