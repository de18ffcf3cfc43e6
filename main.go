package main

import (
	"github.com/shouni/go-pswp-exact/cmd"
)

func main() {
	cmd.Execute()
}
