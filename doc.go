// Package tabletop is the interaction layer of a 3D virtual tabletop built on
// [Ebitengine].
//
// Tabletop places pieces on a ground plane, selects them with single and
// multi-select clicks, and repositions them by dragging the pointer. Cursor
// positions are turned into world points by casting a ray from the [Camera]
// and intersecting it with a horizontal [Plane].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	table, err := tabletop.NewTable(tabletop.DefaultConfig(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := tabletop.Run(table, tabletop.RunConfig{
//		Title: "Tabletop", Width: 1280, Height: 720,
//	}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, implement [ebiten.Game] yourself and call [Table.Update]
// and [Table.Draw] directly.
//
// # Pieces
//
// Every placed object is a [Piece] owned by the table's [Registry]. A piece
// has a root transform and zero or more rigid [Part]s (a tank's turret and
// gun) whose world transforms follow the root. Parts are never hit-tested;
// clicks pass through them to the root.
//
//	p, err := table.Spawner().SpawnAt(mgl64.Vec3{0, 0, 0})
//
// # Interaction
//
// A press on a piece resolves selection through [Selection.OnClick]. Holding
// the multi-select modifier (Shift by default) toggles membership instead of
// replacing the selection. A press on empty ground clears the selection and,
// with the spawn modifier (Ctrl by default) held, spawns a new piece.
//
// Moving the pointer past the drag dead zone starts a drag. The
// [DragController] anchors the cursor on a plane at the piece's height and
// applies each subsequent displacement under the piece's [DragMode]: free on
// the ground plane, or constrained to the piece's facing axis.
//
// # ECS integration
//
// Interaction events can be forwarded to a [Donburi] world through the
// adapter in tabletop/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package tabletop
