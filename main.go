package main

import (
	"github.com/sentlog/sentlog/cmd/sentlog"
)

func main() {
	sentlog.Execute()
}
