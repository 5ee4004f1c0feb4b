// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 38

// Video Source - these keys describe the silent animation handed to the player.
const (
	Video = "video.path"
)

// Frame Sequence - these keys describe the pre-rendered artwork sequence and how it is addressed.
const (
	FramesBase  = "frames.base"
	FramesTotal = "frames.total"
	FramesFPS   = "frames.fps"
	FramesSizes = "frames.sizes"
	FramesType  = "frames.type"
	FramesTTL   = "frames.ttl_hours"
	FramesCount = "frames.count_cache_hours"
)

// Now Playing Metadata - these keys hold the static fields published next to the changing artwork.
const (
	MetadataTitle  = "metadata.title"
	MetadataArtist = "metadata.artist"
	MetadataAlbum  = "metadata.album"
)

// Platform Signals - these keys feed the one-time platform classification.
const (
	PlatformUserAgent   = "platform.user_agent"
	PlatformTouchPoints = "platform.touch_points"
)

// Throttle Tuning - these keys hold every constant of the update policy.
const (
	ThrottleStrictPositionMs     = "throttle.strict_position_ms"
	ThrottlePositionMs           = "throttle.position_ms"
	ThrottleStrictMetadataMs     = "throttle.strict_metadata_ms"
	ThrottleStrictMetadataOff    = "throttle.strict_metadata_disabled"
	ThrottleStrictPrefetchStride = "throttle.strict_prefetch_stride"
	ThrottlePrefetchStride       = "throttle.prefetch_stride"
	ThrottlePrefetchDepth        = "throttle.prefetch_depth"
	ThrottleStrictCacheSize      = "throttle.strict_cache_size"
	ThrottleCacheSize            = "throttle.cache_size"
)

// Prefetch Workers - these keys size and pace the artwork loader pool.
const (
	PrefetchWorkers   = "prefetch.workers"
	PrefetchQueue     = "prefetch.queue"
	PrefetchPerSecond = "prefetch.per_second"
	PrefetchTimeoutMs = "prefetch.timeout_ms"
)

// Playback Unlock - these keys govern the muted start and delayed unmute.
const (
	UnlockStartMuted    = "unlock.start_muted"
	UnlockUnmuteDelayMs = "unlock.unmute_delay_ms"
	UnlockCue           = "unlock.cue"
)

// Media Playback - these keys maintain the configuration for the external video player.
const (
	PlayerLoop     = "player.loop"
	PlayerAutoplay = "player.autoplay"
	PlayerTickHz   = "player.tick_hz"
)

// Media Session - these keys control the OS now-playing integration.
const (
	SessionMPRIS = "session.mpris"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
