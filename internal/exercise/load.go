package exercise

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the exercises loaded from a directory.
type LoadResult struct {
	Exercises []*Exercise
	FileCount int // Number of CUE files found
}

// Find returns the exercise with the given name, or nil.
func (r *LoadResult) Find(name string) *Exercise {
	for _, ex := range r.Exercises {
		if ex.Name == name {
			return ex
		}
	}
	return nil
}

// CompileString compiles every exercise in src. filename is used in error
// positions.
func CompileString(src, filename string, mode LoadMode) ([]*Exercise, []error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}
	return compileAll(v, mode)
}

// LoadFile compiles every exercise in a single CUE file.
func LoadFile(path string, mode LoadMode) ([]*Exercise, []error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("exercise file not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}
	return CompileString(string(data), path, mode)
}

// LoadDir loads and compiles the CUE package in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("exercise directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing exercise directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	exercises, errs := compileAll(value, mode)
	return &LoadResult{Exercises: exercises, FileCount: len(cueFiles)}, errs
}

// compileAll compiles every field under the top-level "exercise" struct.
func compileAll(v cue.Value, mode LoadMode) ([]*Exercise, []error) {
	var (
		exercises []*Exercise
		errs      []error
	)

	root := v.LookupPath(cue.ParsePath("exercise"))
	if !root.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: "no exercises found: missing top-level \"exercise\" struct"}}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating exercises: %v", err)}}
	}
	for iter.Next() {
		ex, err := Compile(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			errs = append(errs, convertCompileError(err))
			if mode == LoadModeFailFast {
				return exercises, errs
			}
			continue
		}
		exercises = append(exercises, ex)
	}

	if len(exercises) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no exercises found"})
	}
	return exercises, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var ce *CompileError
	if errors.As(err, &ce) {
		return &LoadError{
			Code:    ce.Code(),
			Message: fmt.Sprintf("exercise %s: %s: %s", ce.Exercise, ce.Field, ce.Message),
			Pos:     ce.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}
