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

package easyterm

import (
	"bufio"
	"io"
)

// KeyReader decodes single keypresses from a terminal in cbreak mode.
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader is the preferred method of initialisation for the KeyReader
// type.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks until a key is pressed. Cursor keys and other escape
// sequences are returned as one of the Key constants. An escape key on its
// own is returned as KeyEsc.
func (kr *KeyReader) ReadKey() (rune, error) {
	k, _, err := kr.r.ReadRune()
	if err != nil {
		return 0, err
	}

	if k != KeyEsc {
		return k, nil
	}

	// an escape key with nothing following it
	if kr.r.Buffered() == 0 {
		return KeyEsc, nil
	}

	b, err := kr.r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch b {
	case EscCursor:
		c, err := kr.r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch c {
		case CursorUp:
			return KeyUp, nil
		case CursorDown:
			return KeyDown, nil
		case CursorForward:
			return KeyRight, nil
		case CursorBackward:
			return KeyLeft, nil
		case EscHome:
			return KeyHome, nil
		case EscEnd:
			return KeyEnd, nil
		case EscDelete:
			// delete is followed by a tilde
			_, err := kr.r.ReadByte()
			if err != nil {
				return 0, err
			}
			return KeyDelete, nil
		}
	}

	// unrecognised sequences are reported as a single escape key
	return KeyEsc, nil
}
