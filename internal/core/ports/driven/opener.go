package driven

// Opener launches a file in the operating system's default application.
type Opener interface {
	// Open hands path to the platform launcher and waits for the launcher to return.
	// It does not wait for the user to finish with the file.
	Open(path string) error
}
