// This file is part of Dvigen.
//
// Dvigen is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Dvigen is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Dvigen.  If not, see <https://www.gnu.org/licenses/>.

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// At its simplest it can be used as a replacement for the flag package. For
// example:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	vrepeat := md.AddInt("vrepeat", 1, "vertical repeat")
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		os.Exit(0)
//	case modalflag.ParseError:
//		fmt.Println(err)
//		os.Exit(10)
//	}
//
// Modes are added with AddSubModes(). The first mode added is the default
// mode. After Parse() the selected mode can be retrieved with Mode() and a new
// set of flags for that mode prepared with NewMode():
//
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "BUILD", "DUMP")
//	p, _ := md.Parse()
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		statsview := md.AddBool("statsview", false, "run stats server")
//		p, _ = md.Parse()
//		...
//	}
//
// If the argument list begins with flags that are not recognised (and sub-modes
// have been specified) then the default mode is selected and the flags are left
// for the next call to Parse(). This means that flags for the default mode can
// be given without naming the mode.
//
// Path() returns the list of modes selected so far, separated by a slash.
package modalflag
