package main

import "github.com/netopsext/netbox-sync/cmd"

func main() {
	cmd.Execute()
}
