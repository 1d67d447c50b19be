package exercise

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
	"github.com/go-playground/validator/v10"

	"github.com/roach88/cantus/internal/agenda"
	"github.com/roach88/cantus/internal/counterpoint"
	"github.com/roach88/cantus/internal/engine"
	"github.com/roach88/cantus/internal/pitch"
)

//go:embed schema.cue
var schemaSource []byte

// Definition is an exercise as written in CUE (after schema defaults) or
// inline in a YAML scenario.
type Definition struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Mode        string   `json:"mode,omitempty" yaml:"mode,omitempty" validate:"required_without=Degrees"`
	Degrees     []int    `json:"degrees,omitempty" yaml:"degrees,omitempty" validate:"omitempty,min=1,max=12,dive,min=0,max=23"`
	Voice       string   `json:"voice" yaml:"voice,omitempty" validate:"required,oneof=above below"`
	Policy      string   `json:"policy" yaml:"policy,omitempty" validate:"required,oneof=depth-first breadth-first"`
	Cantus      []string `json:"cantus" yaml:"cantus" validate:"min=2,dive,required"`
}

// Defaults applied to definitions that do not go through the CUE schema.
const (
	DefaultVoice  = "above"
	DefaultPolicy = "depth-first"
)

// Exercise is a compiled, ready to search exercise.
type Exercise struct {
	Name        string
	Description string
	Cantus      []pitch.Note
	Voice       counterpoint.Voice
	Mode        pitch.Mode
	Policy      agenda.Policy
	Pos         token.Pos
}

// Engine builds a search engine for the exercise. The exercise's policy
// applies unless opts override it.
func (e *Exercise) Engine(opts ...engine.EngineOption) (*engine.Engine, error) {
	opts = append([]engine.EngineOption{engine.WithPolicy(e.Policy)}, opts...)
	return engine.New(e.Cantus, e.Voice, e.Mode, opts...)
}

// Definition returns a definition that compiles back to e. Built-in modes
// are given by name, any other mode by its degree table.
func (e *Exercise) Definition() Definition {
	def := Definition{
		Description: e.Description,
		Mode:        e.Mode.Name(),
		Voice:       e.Voice.String(),
		Policy:      e.Policy.String(),
		Cantus:      make([]string, len(e.Cantus)),
	}
	for i, n := range e.Cantus {
		def.Cantus[i] = pitch.Name(n)
	}
	if m, err := pitch.LookupMode(e.Mode.Name()); err != nil || !slices.Equal(m.Degrees(), e.Mode.Degrees()) {
		def.Degrees = e.Mode.Degrees()
	}
	return def
}

var validate = validator.New()

// Compile turns one exercise value into an Exercise. name is the label
// the exercise was declared under.
func Compile(name string, v cue.Value) (*Exercise, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(name, err)
	}

	schema := v.Context().CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling exercise schema: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Exercise")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(name, err)
	}

	var def Definition
	if err := unified.Decode(&def); err != nil {
		return nil, formatCUEError(name, err)
	}
	if err := validate.Struct(def); err != nil {
		return nil, validationError(name, v.Pos(), err)
	}

	return build(name, v.Pos(), def)
}

// FromDefinition compiles a definition that was not written in CUE. Empty
// voice and policy take DefaultVoice and DefaultPolicy.
func FromDefinition(name string, def Definition) (*Exercise, error) {
	if def.Voice == "" {
		def.Voice = DefaultVoice
	}
	if def.Policy == "" {
		def.Policy = DefaultPolicy
	}
	if err := validate.Struct(def); err != nil {
		return nil, validationError(name, token.NoPos, err)
	}
	return build(name, token.NoPos, def)
}

func build(name string, pos token.Pos, def Definition) (*Exercise, error) {
	fail := func(field string, err error) error {
		return &CompileError{Exercise: name, Field: field, Message: err.Error(), Pos: pos, Err: err}
	}

	ex := &Exercise{Name: name, Description: def.Description, Pos: pos}

	var err error
	if len(def.Degrees) > 0 {
		modeName := def.Mode
		if modeName == "" {
			modeName = name
		}
		if ex.Mode, err = pitch.NewMode(modeName, def.Degrees...); err != nil {
			return nil, fail("degrees", err)
		}
	} else if ex.Mode, err = pitch.LookupMode(def.Mode); err != nil {
		return nil, fail("mode", err)
	}

	if ex.Voice, err = counterpoint.ParseVoice(def.Voice); err != nil {
		return nil, fail("voice", err)
	}
	if ex.Policy, err = agenda.ParsePolicy(def.Policy); err != nil {
		return nil, fail("policy", err)
	}

	ex.Cantus = make([]pitch.Note, len(def.Cantus))
	for i, s := range def.Cantus {
		n, err := pitch.ParseNote(s)
		if err != nil {
			return nil, fail("cantus", fmt.Errorf("note %d: %w", i+1, err))
		}
		ex.Cantus[i] = n
	}

	// Reject cantus lines the search would reject, at load time.
	if _, err := counterpoint.New(ex.Cantus, ex.Voice, ex.Mode); err != nil {
		return nil, fail("cantus", err)
	}
	return ex, nil
}

func validationError(name string, pos token.Pos, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &CompileError{Exercise: name, Field: "validate", Message: err.Error(), Pos: pos, Err: err}
	}

	fe := verrs[0]
	field := strings.ToLower(fe.StructField())
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if fe.Tag() == "required" || fe.Tag() == "required_without" {
		field = "required"
	}
	return &CompileError{
		Exercise: name,
		Field:    field,
		Message:  fmt.Sprintf("%s failed %q validation", strings.ToLower(fe.Field()), fe.Tag()),
		Pos:      pos,
		Err:      err,
	}
}
