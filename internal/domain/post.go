package domain

// Post is an entry from the remote posts feed.
// Posts are unrelated to quotes and are never persisted.
type Post struct {
	ID    int
	Title string
}
