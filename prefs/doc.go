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

// Package prefs facilitates the storage of preferential values in the
// application. Preference values are typed and are safe to read and write from
// more than one goroutine.
//
// A Disk instance associates preference values with a file on disk. Values are
// added to the disk with Add() along with a key. The key is written alongside
// the value by the Save() function. Saving does not clobber entries in the
// file that were not added to the Disk instance. This means that more than
// one component can share the same preferences file.
//
// The command line stack is a way of overriding preference values from the
// command line. A string of key/value pairs is pushed on to the stack with
// PushCommandLineStack() and is consulted by Disk.Load() after the file has
// been read. An override is consumed the first time it is used.
package prefs
