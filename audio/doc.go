// Package audio builds the mount's synthesized audio.wav entry.
package audio
