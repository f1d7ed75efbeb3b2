/*
 * files_test.go, part of gophon.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package phon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "POSCAR")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))
	dst := filepath.Join(dir, "POSCAR-unitcell")
	require.NoError(t, CopyFile(src, dst))
	assert.True(t, NonEmpty(dst))
	assert.True(t, NonEmpty(src))
	assert.False(t, SameFile(src, dst), "a copy is not the same file")
	assert.True(t, SameFile(src, filepath.Join(dir, ".", "POSCAR")))

	moved := filepath.Join(dir, "moved")
	require.NoError(t, MoveFile(dst, moved))
	assert.NoFileExists(t, dst)
	assert.FileExists(t, moved)

	empty := filepath.Join(dir, "CHG")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.False(t, NonEmpty(empty))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	n, err := RemoveEmptyFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.DirExists(t, filepath.Join(dir, "sub"), "directories must not be removed")
}
