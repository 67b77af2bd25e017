package domain

// User represents a registered member of the network.
type User struct {
	ID       int64
	Username string
}

// Profile is a member as seen by another (possibly anonymous) viewer.
type Profile struct {
	User
	Followers   int64
	Following   int64
	IsFollowing bool
}
