package models

// DirectoryState is a point-in-time copy of the directory store.
type DirectoryState struct {
	Records     []UserRecord
	CurrentPage int
	TotalPages  int
	PerPage     int
	Total       int
	Loading     bool
	Err         *Failure
}

// UsersPage is one page of the remote directory.
type UsersPage struct {
	Records    []UserRecord
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}
