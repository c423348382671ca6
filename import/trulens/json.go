package trulens

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

/*
{
  "record_id": "record_hash_...",
  "app_id": "my_app",
  "perf": {"start_time": "2024-01-02T03:04:05.000000", "end_time": "..."},
  "calls": [
    {
      "stack": [
        {
          "path": {"path": [{"attribute": "app"}, {"item_or_attribute": "retriever"}]},
          "method": {"obj": {"cls": {"name": "Retriever", "module": {...}}, "id": 1402}, "name": "get_context"}
        }
      ],
      "args": {...}, "rets": [...], "error": null,
      "perf": {"start_time": "...", "end_time": "..."},
      "pid": 12, "tid": 34
    }
  ]
}
*/

type Record struct {
	RecordID   string          `json:"record_id"`
	AppID      string          `json:"app_id"`
	Perf       Perf            `json:"perf"`
	Calls      []Call          `json:"calls"`
	Cost       json.RawMessage `json:"cost,omitempty"`
	Tags       json.RawMessage `json:"tags,omitempty"`
	Meta       json.RawMessage `json:"meta,omitempty"`
	MainInput  json.RawMessage `json:"main_input,omitempty"`
	MainOutput json.RawMessage `json:"main_output,omitempty"`
	MainError  json.RawMessage `json:"main_error,omitempty"`

	// Extra holds fields not listed above.
	Extra map[string]json.RawMessage `json:"-"`
}

func (rec *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	if err := json.Unmarshal(data, (*plain)(rec)); err != nil {
		return decodeError("record", err)
	}
	extra, err := extraFields("record", data, "record_id", "app_id", "perf", "calls", "cost", "tags", "meta", "main_input", "main_output", "main_error")
	rec.Extra = extra
	return err
}

type Call struct {
	Stack []StackCell                `json:"stack"`
	Args  json.RawMessage            `json:"args,omitempty"`
	Rets  json.RawMessage            `json:"rets,omitempty"`
	Error json.RawMessage            `json:"error,omitempty"`
	Perf  Perf                       `json:"perf"`
	PID   json.RawMessage            `json:"pid,omitempty"`
	TID   json.RawMessage            `json:"tid,omitempty"`
	Extra map[string]json.RawMessage `json:"-"`
}

func (call *Call) UnmarshalJSON(data []byte) error {
	type plain Call
	if err := json.Unmarshal(data, (*plain)(call)); err != nil {
		return decodeError("call", err)
	}
	extra, err := extraFields("call", data, "stack", "args", "rets", "error", "perf", "pid", "tid")
	call.Extra = extra
	return err
}

type Perf struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type StackCell struct {
	Path   Path   `json:"path"`
	Method Method `json:"method"`
}

type Method struct {
	Obj  Obj    `json:"obj"`
	Name string `json:"name"`
}

type Obj struct {
	Cls   Class                      `json:"cls"`
	ID    ObjectID                   `json:"id"`
	Extra map[string]json.RawMessage `json:"-"`
}

func (obj *Obj) UnmarshalJSON(data []byte) error {
	type plain Obj
	if err := json.Unmarshal(data, (*plain)(obj)); err != nil {
		return decodeError("object", err)
	}
	extra, err := extraFields("object", data, "cls", "id")
	obj.Extra = extra
	return err
}

type Class struct {
	Name   string          `json:"name"`
	Module Module          `json:"module"`
	Bases  json.RawMessage `json:"bases,omitempty"`
}

type Module struct {
	PackageName string `json:"package_name"`
	ModuleName  string `json:"module_name"`
}

// ObjectID is the python object id, written either as a number or a string.
type ObjectID string

func (id *ObjectID) UnmarshalJSON(data []byte) error {
	s, _ := scalar(data)
	*id = ObjectID(s)
	return nil
}

// Path is a lens into the app, written either as a plain string or as
// a sequence of steps. Anything else decodes as the empty path.
type Path struct {
	Literal string
	Steps   []Step
	literal bool
}

func (path *Path) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*path = Path{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var literal string
		if err := json.Unmarshal(data, &literal); err != nil {
			*path = Path{}
			return nil
		}
		*path = Path{Literal: literal, literal: true}
		return nil
	}

	*path = Path{}
	var steps struct {
		Path []json.RawMessage `json:"path"`
	}
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil
	}
	for _, raw := range steps.Path {
		var step Step
		if err := json.Unmarshal(raw, &step); err != nil {
			continue
		}
		path.Steps = append(path.Steps, step)
	}
	return nil
}

// String renders the path as `.key` and `[i]` accesses.
// Unrecognized steps are dropped.
func (path Path) String() string {
	if path.literal {
		return path.Literal
	}
	var b strings.Builder
	for _, step := range path.Steps {
		b.WriteString(step.String())
	}
	return b.String()
}

// Step is a single access of a Path. Keys may be strings or numbers.
type Step struct {
	ItemOrAttribute json.RawMessage `json:"item_or_attribute,omitempty"`
	Attribute       json.RawMessage `json:"attribute,omitempty"`
	Item            json.RawMessage `json:"item,omitempty"`
	Index           json.RawMessage `json:"index,omitempty"`
}

func (step Step) String() string {
	for _, raw := range []json.RawMessage{step.ItemOrAttribute, step.Attribute, step.Item} {
		if name, ok := scalar(raw); ok {
			if name == "" {
				return ""
			}
			return "." + name
		}
	}
	if index, ok := scalar(step.Index); ok {
		if _, err := strconv.ParseInt(index, 10, 64); err == nil {
			return "[" + index + "]"
		}
	}
	return ""
}

// scalar returns the text of a JSON string or number.
func scalar(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

// extraFields returns the members of the object in data not listed in known.
func extraFields(kind string, data []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, decodeError(kind, err)
	}
	for _, name := range known {
		delete(all, name)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// DecodeError reports which part of a record failed to decode.
type DecodeError struct {
	Kind string
	Err  error
}

func decodeError(kind string, err error) error {
	return &DecodeError{Kind: kind, Err: err}
}

func (err *DecodeError) Error() string {
	var nested *DecodeError
	if errors.As(err.Err, &nested) {
		return err.Kind + ": " + nested.Error()
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err.Err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return err.Kind + ": cannot decode JSON " + typeErr.Value
		}
		return err.Kind + ": field " + field + ": cannot decode JSON " + typeErr.Value
	}
	return err.Kind + ": " + err.Err.Error()
}

func (err *DecodeError) Unwrap() error { return err.Err }
