package domain

// AdminSession is the single in-process operator session. It is set on a
// successful login, cleared on logout and never persisted across restarts.
type AdminSession struct {
	Username      string
	Authenticated bool
}
