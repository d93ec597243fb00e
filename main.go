package main

import "github.com/wibowo/storefront/cmd"

func main() {
	cmd.Start()
}
