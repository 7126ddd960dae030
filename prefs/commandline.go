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

package prefs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// overrides taken from the command line. each group in the stack is a map of
// key/value pairs. only the top of the stack is consulted.
type commandLine struct {
	crit  sync.Mutex
	stack []map[string]string
}

var cmdline commandLine

// SizeCommandLineStack returns the number of groups that have been pushed on
// to the stack.
func SizeCommandLineStack() int {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()
	return len(cmdline.stack)
}

// PushCommandLineStack parses a string of preference overrides and pushes them
// to the top of the stack. The string is made up of key::value pairs separated
// by a semi-colon. For example:
//
//	display.vrepeat::2; psram.clock::266
//
// Malformed pairs are ignored.
func PushCommandLineStack(prefs string) {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	group := make(map[string]string)
	for _, p := range strings.Split(prefs, ";") {
		kv := strings.Split(p, "::")
		if len(kv) != 2 {
			continue
		}
		group[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}

	cmdline.stack = append(cmdline.stack, group)
}

// PopCommandLineStack removes the most recent group from the stack. Returns
// the overrides in that group that were never used, in the same format as
// accepted by PushCommandLineStack(). Keys are sorted.
func PopCommandLineStack() string {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	if len(cmdline.stack) == 0 {
		return ""
	}

	group := cmdline.stack[len(cmdline.stack)-1]
	cmdline.stack = cmdline.stack[:len(cmdline.stack)-1]

	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	unused := make([]string, 0, len(keys))
	for _, k := range keys {
		unused = append(unused, fmt.Sprintf("%s::%s", k, group[k]))
	}

	return strings.Join(unused, "; ")
}

// GetCommandLinePref returns the override for the key if there is one. The
// override is consumed and will not be returned again.
func GetCommandLinePref(key string) (bool, string) {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	if len(cmdline.stack) == 0 {
		return false, ""
	}

	group := cmdline.stack[len(cmdline.stack)-1]
	if v, ok := group[key]; ok {
		delete(group, key)
		return true, v
	}

	return false, ""
}
