// Copyright 2021 Converter Systems LLC. All rights reserved.

// Command uadump decodes and encodes OPC UA binary values and checks client config files.
//
// Usage:
//
//	uadump decode --type variant 06 2a 00 00 00
//	uadump decode --type datavalue --file sample.bin
//	uadump nodeid "ns=2;s=Demo.Static.Scalar.Double"
//	uadump config client.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
