package constant

// Artwork defaults describing the pre-rendered frame sequence.
const (
	// ArtworkPattern names frame images by their 1-based index, zero-padded to four digits.
	ArtworkPattern = "output_%04d.jpg"

	// ArtworkSizes is the declared pixel size of each frame image.
	ArtworkSizes = "480x360"

	// ArtworkType is the MIME type of each frame image.
	ArtworkType = "image/jpeg"

	// TotalFrames is the length of the bundled sequence.
	TotalFrames = 6571

	// FPS is the logical frame rate the sequence was rendered at.
	FPS = 30
)

// Static now-playing metadata. Artwork is the only field that changes during playback.
const (
	DefaultTitle  = "Bad Apple!!"
	DefaultArtist = "Alstroemeria Records"
	DefaultAlbum  = "Traditional Remix"
)
