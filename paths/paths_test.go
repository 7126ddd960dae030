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

package paths_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/dvigen/paths"
	"github.com/jetsetilly/dvigen/test"
)

func TestPaths(t *testing.T) {
	// base path is created relative to the working directory
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	defer os.Chdir(wd)
	test.DemandSuccess(t, os.Chdir(t.TempDir()))

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".dvigen", "foo", "bar", "baz"))

	// directories have been created but the file has not
	_, err = os.Stat(filepath.Join(".dvigen", "foo", "bar"))
	test.ExpectSuccess(t, err)
	_, err = os.Stat(pth)
	test.ExpectFailure(t, err)

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".dvigen", "baz"))

	pth, err = paths.ResourcePath()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".dvigen")
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("dump", "demo", "html")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "dump_demo_"))
	test.ExpectSuccess(t, strings.HasSuffix(fn, ".html"))

	fn = paths.UniqueFilename("dump", "", "")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "dump_"))
	test.ExpectFailure(t, strings.Contains(fn, "."))
}
