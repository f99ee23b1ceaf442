package main

import "github.com/gunkustom/GunKustom-docs-internal/cmd"

func main() {
	cmd.Execute()
}
