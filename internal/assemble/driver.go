package assemble

import (
	"fmt"
	"os"

	"github.com/tamattias/assembler/internal/config"
	"github.com/tamattias/assembler/internal/diag"
	"github.com/tamattias/assembler/internal/macro"
)

// Result is the outcome of assembling one basename.
type Result struct {
	Basename string
	State    *State
	Errors   *diag.List
}

// OK reports whether the basename assembled without any diagnostics
// across every stage.
func (r *Result) OK() bool {
	return !r.Errors.HasErrors()
}

// AssembleFile runs the full pipeline for one basename: read
// "<basename>.as", preprocess macros into "<basename>.am", run the first
// and second passes, and, if both passes produced no diagnostics, write
// "<basename>.ob" and (when non-empty) "<basename>.ent"/"<basename>.ext".
// Diagnostics from whichever stage failed first are returned; later
// stages do not run once an earlier one reports errors, mirroring the
// original tool's per-file error gate.
func AssembleFile(cfg *config.Config, basename string) *Result {
	res := &Result{Basename: basename, Errors: &diag.List{}}

	srcPath := basename + ".as"
	raw, err := os.ReadFile(srcPath) // #nosec G304 -- user-supplied assembly source
	if err != nil {
		res.Errors.Add(diag.New("preprocessor", 0, diag.KindIO, "could not open %s: %v", srcPath, err))
		return res
	}

	expanded, errs := macro.Preprocess("preprocessor", string(raw))
	if errs.HasErrors() {
		res.Errors = errs
		return res
	}

	amPath := basename + ".am"
	if err := os.WriteFile(amPath, []byte(expanded), 0644); err != nil { // #nosec G306 -- generated assembler artifact
		res.Errors.Add(diag.New("preprocessor", 0, diag.KindIO, "could not write %s: %v", amPath, err))
		return res
	}

	state, errs := FirstPass(cfg, expanded)
	if errs.HasErrors() {
		res.Errors = errs
		return res
	}

	errs = SecondPass(state, expanded)
	if errs.HasErrors() {
		res.Errors = errs
		return res
	}

	res.State = state

	if err := os.WriteFile(basename+".ob", []byte(ObjectFile(state)), 0644); err != nil { // #nosec G306
		res.Errors.Add(diag.New("secondpass", 0, diag.KindIO, "could not write %s.ob: %v", basename, err))
		return res
	}

	if state.Entries.Len() > 0 {
		if err := os.WriteFile(basename+".ent", []byte(EntriesFile(state)), 0644); err != nil { // #nosec G306
			res.Errors.Add(diag.New("secondpass", 0, diag.KindIO, "could not write %s.ent: %v", basename, err))
			return res
		}
	}

	if state.Externals.Len() > 0 {
		if err := os.WriteFile(basename+".ext", []byte(ExternalsFile(state)), 0644); err != nil { // #nosec G306
			res.Errors.Add(diag.New("secondpass", 0, diag.KindIO, "could not write %s.ext: %v", basename, err))
			return res
		}
	}

	return res
}

// AssembleFiles runs AssembleFile over every basename and prints any
// diagnostics to standard output, matching the original tool's
// unconditional printf-to-stdout reporting. It returns the aggregated
// results and whether every basename assembled cleanly.
func AssembleFiles(cfg *config.Config, basenames []string) ([]*Result, bool) {
	results := make([]*Result, 0, len(basenames))
	allOK := true

	for _, basename := range basenames {
		res := AssembleFile(cfg, basename)
		results = append(results, res)
		if !res.OK() {
			allOK = false
			fmt.Fprint(os.Stdout, res.Errors.String())
		}
	}

	return results, allOK
}
