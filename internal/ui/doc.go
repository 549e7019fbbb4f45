// Package ui contains the Bubble Tea program that hosts the menu tracking
// engine: a menu bar on the first row, pop-up overlays drawn over the
// workspace and a status line at the bottom.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are
//     routed through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - Mouse and key messages are published to the shared surface. While a
//     chain is open the tracking worker consumes them; otherwise the model
//     itself decides whether they open the bar, pop up the context menu or
//     invoke an item by shortcut (input.go).
//
// Concurrency:
//   - Tracking runs on runner workers. They invalidate the surface after
//     each change; the hook only nudges a buffered channel, and a waiting
//     command turns that into a redraw message.
//   - Chosen items come back through the runner's sink channel once their
//     chain is fully closed and are executed through invoke.Bus as Bubble
//     Tea commands (commands.go).
//   - View and every menu read made by the model take the surface lock,
//     which workers release between polls.
package ui
