// Command tabletop opens the tabletop viewer.
package main

func main() {
	Execute()
}
