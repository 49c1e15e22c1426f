// Package settings persists the screensaver's user preferences (media roots,
// volume, image interval, selection algorithm and auto-mute timeout) in a
// YAML file, by default $XDG_CONFIG_HOME/media-screensaver/settings.yaml.
//
// Every setter writes the whole file atomically before updating the in-memory
// copy, so a failed write leaves both unchanged.
package settings
