package version

const (
	// Version of the feedback bot.
	Version = "1.2.0"
)

// PatchNotes shown by /help.
var PatchNotes = []string{
	"Map labels are now clamped so counts near the image edge stay readable.",
	"Added the live feed endpoint for the admin dashboard.",
	"Report pagination keeps its position after a new submission.",
}
