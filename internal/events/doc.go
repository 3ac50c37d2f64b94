// Package events implements the broadcast channel that decouples PTY relay
// goroutines from UI-side consumers. Every event is tagged with the
// originating session id; subscribers filter to the sessions they care
// about. Output events carry absolute byte offsets so late subscribers can
// stitch a replay snapshot together with the live stream without gaps or
// duplicates.
package events
