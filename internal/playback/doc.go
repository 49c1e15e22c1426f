// Package playback holds the slideshow's transport state: whether
// auto-advance is paused, how long each image stays on screen, and the video
// volume.
//
// Volume changes are clamped to [0, 1] and written to a VolumeStore. When a
// mute timeout is configured the controller silences video after that much
// time without a volume change; the automatic mute is not persisted.
package playback
