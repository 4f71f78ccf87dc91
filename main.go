// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/reporoot/cmd/reporoot"

func main() {
	cmd.Execute()
}
