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

package paths

import (
	"path/filepath"
)

// ResourcePath returns the resource string (representing the resource to be
// loaded) prepended with the OS/build specific paths.
//
// The function takes care of creation of all folders necessary to reach the
// resource. It will not however create the resource itself. The last argument
// is treated as a filename and all other arguments as directories.
func ResourcePath(resource ...string) (string, error) {
	if len(resource) == 0 {
		return getBasePath("")
	}

	dir := filepath.Join(resource[:len(resource)-1]...)
	base, err := getBasePath(dir)
	if err != nil {
		return "", err
	}

	return filepath.Join(base, resource[len(resource)-1]), nil
}
