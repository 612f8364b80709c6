// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/singlejar/singlejar/cmd/singlejar"

func main() {
	cmd.Execute()
}
