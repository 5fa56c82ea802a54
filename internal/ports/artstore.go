package ports

// ArtStore persists finished card images and returns the path clients
// use to fetch them.
type ArtStore interface {
	// SaveCardArt writes the PNG for the named card and returns its
	// public serve path.
	SaveCardArt(name, id string, png []byte) (string, error)
}
