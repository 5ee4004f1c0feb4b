package icon

// Icon identifies a UI symbol rendered through the configured variant.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Pause
	Muted
	Frame
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "👹",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "…",
		kaomoji: "(・_・)ノ",
		squares: "🟦",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－) zzZ",
		squares: "🟨",
	},
	Muted: {
		emoji:   "🔇",
		nerd:    "",
		plain:   "x",
		kaomoji: "(・×・)",
		squares: "🟧",
	},
	Frame: {
		emoji:   "🖼️",
		nerd:    "",
		plain:   "#",
		kaomoji: "[◕‿◕]",
		squares: "⬛",
	},
}
