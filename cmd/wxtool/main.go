// SPDX-License-Identifier: MIT

// wxtool is a reference host for the cli-common library. It wires the
// completion, doctor, license, output, and selfupdate packages into a
// runnable tool, showing the integration each Workhelix CLI repeats.
package main

func main() {
	Execute()
}
