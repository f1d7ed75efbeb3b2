/*
 * doc.go, part of gophon.
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

/*Package phon is the root package of gophon, a driver for finite-displacement phonon
calculations with phonopy and VASP. It provides the structure (POSCAR) reader, the
error kinds shared by all the gophon packages and a few file helpers.



	**gophon Capabilities**


    Prepares the unit cell (optionally symmetrized by phonopy) and the displaced
	supercells, each in its own work directory, ready for VASP.

    Records the campaign parameters between the pre- and post-processing stages.

    Checks that every VASP run converged (plain, gzip or zstd compressed OUTCAR)
	and reports all the failed runs at once.

    Collects the forces into FORCE_SETS, chooses a band path from the lattice
	of the unit cell (or a fixed default path) and computes the phonon band
	structure.

    Plots the band structure with phonopy-bandplot and gonum/plot.


The subpackages are:

	phonopy: runs phonopy, writes band.conf, reads band.yaml.
	vasp: convergence checks for VASP runs.
	kpath: special points and band paths.
	bandplot: band structure plots.
	workflow: the pre- and post-processing stages, and the operator prompts.

The gophon command (cmd/gophon) puts everything together.
*/
package phon
