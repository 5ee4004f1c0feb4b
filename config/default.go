// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/constant"
	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Framecast + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.Video, "", "Path or http(s) URL of the silent animation to play")
	register(key.FramesBase, "", "Directory or http(s) base URL holding the frame artwork.\nFiles are named output_0001.jpg, output_0002.jpg, ...")
	register(key.FramesTotal, constant.TotalFrames, "Length of the frame sequence.\nSet to 0 to detect it from a local frames directory")
	register(key.FramesFPS, constant.FPS, "Logical frame rate the artwork sequence was rendered at")
	register(key.FramesSizes, constant.ArtworkSizes, "Declared pixel size of each frame image")
	register(key.FramesType, constant.ArtworkType, "MIME type of each frame image")
	register(key.FramesTTL, 24*7, "Hours a downloaded frame stays in the local artwork store")
	register(key.FramesCount, 24, "Hours a detected sequence length is remembered")
	register(key.MetadataTitle, constant.DefaultTitle, "Title shown in the OS media controls")
	register(key.MetadataArtist, constant.DefaultArtist, "Artist shown in the OS media controls")
	register(key.MetadataAlbum, constant.DefaultAlbum, "Album shown in the OS media controls")
	register(key.PlatformUserAgent, "", "User agent of the device that renders the media controls.\nUsed only to classify the platform; empty means this machine")
	register(key.PlatformTouchPoints, 0, "Touch points reported by the device that renders the media controls")
	register(key.ThrottleStrictPositionMs, 2000, "Minimum milliseconds between position reports on strict mobile integrations")
	register(key.ThrottlePositionMs, 1000, "Minimum milliseconds between position reports elsewhere")
	register(key.ThrottleStrictMetadataMs, 1000, "Minimum milliseconds between artwork swaps on strict mobile integrations")
	register(key.ThrottleStrictMetadataOff, false, "Disable artwork swaps entirely on strict mobile integrations")
	register(key.ThrottleStrictPrefetchStride, 30, "Frames ahead to prefetch on strict mobile integrations")
	register(key.ThrottlePrefetchStride, 1, "Frames ahead to prefetch elsewhere")
	register(key.ThrottlePrefetchDepth, 1, "Number of upcoming frames requested per artwork swap")
	register(key.ThrottleStrictCacheSize, 30, "Prefetch cache capacity on strict mobile integrations")
	register(key.ThrottleCacheSize, 150, "Prefetch cache capacity elsewhere")
	register(key.PrefetchWorkers, 2, "Concurrent artwork loaders")
	register(key.PrefetchQueue, 64, "Pending artwork loads before new requests are dropped")
	register(key.PrefetchPerSecond, 60, "Maximum artwork loads started per second")
	register(key.PrefetchTimeoutMs, 5000, "Timeout of a single artwork load in milliseconds")
	register(key.UnlockStartMuted, true, "Start playback muted and unmute once it is confirmed")
	register(key.UnlockUnmuteDelayMs, 100, "Milliseconds to wait between confirmed playback and unmute.\n0 unmutes immediately")
	register(key.UnlockCue, true, "Play a one-time silent audio cue before the first playback")
	register(key.PlayerLoop, true, "Loop the video")
	register(key.PlayerAutoplay, false, "Start playing as soon as the video is loaded")
	register(key.PlayerTickHz, 60, "Sync loop ticks per second while playing")
	register(key.SessionMPRIS, true, "Publish now-playing state over MPRIS (D-Bus session bus)")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")

	if len(Default) != key.DefinedFieldsCount {
		panic(fmt.Sprintf("config: %d fields registered, %d keys defined", len(Default), key.DefinedFieldsCount))
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
