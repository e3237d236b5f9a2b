package event

import (
	"fmt"

	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/logger"
	"github.com/dshills/neoview/internal/renderer/core"
)

// DecodeAll decodes a full redraw batch as delivered by the RPC handler:
// each update is [name, tuple, tuple, ...]. Malformed tuples are dropped
// and logged; the relative order of surviving events is preserved.
func DecodeAll(updates [][]interface{}) []Event {
	events := make([]Event, 0, len(updates))
	for _, update := range updates {
		if len(update) < 1 {
			logger.Warn("redraw update with no name")
			continue
		}
		name, ok := update[0].(string)
		if !ok {
			logger.Warn("redraw update name is not a string", "value", update[0])
			continue
		}

		for i, raw := range update[1:] {
			tuple, ok := raw.([]interface{})
			if !ok {
				drop(&DecodeError{Event: name, Index: i, Err: fmt.Errorf("tuple is %T, want array", raw)})
				continue
			}
			ev, err := decodeTuple(name, tuple)
			if err != nil {
				drop(&DecodeError{Event: name, Index: i, Err: err})
				continue
			}
			events = append(events, ev)
		}
	}
	return events
}

func drop(err *DecodeError) {
	logger.Warn("dropping redraw tuple", "event", err.Event, "index", err.Index, "error", err.Err)
}

func decodeTuple(name string, tuple []interface{}) (Event, error) {
	switch name {
	case "grid_resize":
		return decodeGridResize(tuple)
	case "grid_line":
		return decodeGridLine(tuple)
	case "grid_clear":
		id, err := intAt(tuple, 0)
		if err != nil {
			return nil, err
		}
		return GridClear{Grid: id}, nil
	case "grid_scroll":
		return decodeGridScroll(tuple)
	case "grid_cursor_goto":
		return decodeGridCursorGoto(tuple)
	case "grid_destroy":
		id, err := intAt(tuple, 0)
		if err != nil {
			return nil, err
		}
		return GridDestroy{Grid: id}, nil
	case "hl_attr_define":
		return decodeHlAttrDefine(tuple)
	case "default_colors_set":
		return decodeDefaultColorsSet(tuple)
	case "option_set":
		return decodeOptionSet(tuple)
	case "mode_change":
		return decodeModeChange(tuple)
	case "busy_start":
		return BusyStart{}, nil
	case "busy_stop":
		return BusyStop{}, nil
	case "mouse_on":
		return MouseOn{}, nil
	case "mouse_off":
		return MouseOff{}, nil
	case "flush":
		return Flush{}, nil
	case "popupmenu_show":
		return decodePopupmenuShow(tuple)
	case "popupmenu_select":
		sel, err := optIntAt(tuple, 0)
		if err != nil {
			return nil, err
		}
		return PopupmenuSelect{Selected: sel}, nil
	case "popupmenu_hide":
		return PopupmenuHide{}, nil
	case "cmdline_show":
		return decodeCmdlineShow(tuple)
	case "cmdline_pos":
		return decodeCmdlinePos(tuple)
	case "cmdline_hide":
		level := 0
		if len(tuple) > 0 {
			l, err := intAt(tuple, 0)
			if err != nil {
				return nil, err
			}
			level = int(l)
		}
		return CmdlineHide{Level: level}, nil
	default:
		return Unknown{Name: name, Args: tuple}, nil
	}
}

func decodeGridResize(tuple []interface{}) (Event, error) {
	id, err := intAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	cols, err := intAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	rows, err := intAt(tuple, 2)
	if err != nil {
		return nil, err
	}
	return GridResize{Grid: id, Columns: int(cols), Rows: int(rows)}, nil
}

// decodeGridLine parses [grid, row, col_start, cells] where cells is a
// list of [text, hl_id?, repeat?] triples. A triple without an explicit
// highlight id inherits the most recent explicit one seen within this
// call; a missing repeat defaults to 1.
func decodeGridLine(tuple []interface{}) (Event, error) {
	id, err := intAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	row, err := intAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	colStart, err := intAt(tuple, 2)
	if err != nil {
		return nil, err
	}
	rawCells, err := arrayAt(tuple, 3)
	if err != nil {
		return nil, err
	}

	cells := make([]grid.CellUpdate, 0, len(rawCells))
	var hlID int64
	for i, rawCell := range rawCells {
		triple, ok := rawCell.([]interface{})
		if !ok || len(triple) < 1 {
			return nil, fmt.Errorf("cell %d is not a [text, hl_id?, repeat?] triple", i)
		}
		text, ok := triple[0].(string)
		if !ok {
			return nil, fmt.Errorf("cell %d text is %T, want string", i, triple[0])
		}
		if len(triple) > 1 {
			v, err := asInt(triple[1])
			if err != nil {
				return nil, fmt.Errorf("cell %d hl_id: %w", i, err)
			}
			hlID = v
		}
		repeat := 1
		if len(triple) > 2 {
			v, err := asInt(triple[2])
			if err != nil {
				return nil, fmt.Errorf("cell %d repeat: %w", i, err)
			}
			repeat = int(v)
		}
		cells = append(cells, grid.CellUpdate{Text: text, HlID: hlID, Repeat: repeat})
	}
	return GridLine{Grid: id, Row: int(row), ColStart: int(colStart), Cells: cells}, nil
}

func decodeGridScroll(tuple []interface{}) (Event, error) {
	vals := make([]int64, 7)
	for i := range vals {
		v, err := intAt(tuple, i)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return GridScroll{
		Grid:  vals[0],
		Top:   int(vals[1]),
		Bot:   int(vals[2]),
		Left:  int(vals[3]),
		Right: int(vals[4]),
		Rows:  int(vals[5]),
		Cols:  int(vals[6]),
	}, nil
}

func decodeGridCursorGoto(tuple []interface{}) (Event, error) {
	id, err := intAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	row, err := intAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	col, err := intAt(tuple, 2)
	if err != nil {
		return nil, err
	}
	return GridCursorGoto{Grid: id, Row: int(row), Col: int(col)}, nil
}

func decodeHlAttrDefine(tuple []interface{}) (Event, error) {
	id, err := intAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	attrs, err := mapAt(tuple, 1)
	if err != nil {
		return nil, err
	}

	// The cterm attrs at index 2 and the info array at index 3 are both
	// optional on the wire.
	var info []map[string]interface{}
	if len(tuple) > 3 {
		rawInfo, err := arrayAt(tuple, 3)
		if err != nil {
			return nil, err
		}
		for i, rawItem := range rawInfo {
			item, err := asMap(rawItem)
			if err != nil {
				return nil, fmt.Errorf("info %d: %w", i, err)
			}
			info = append(info, item)
		}
	}
	return HlAttrDefine{ID: id, Attrs: attrs, Info: info}, nil
}

func decodeDefaultColorsSet(tuple []interface{}) (Event, error) {
	fg, err := colorAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	bg, err := colorAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	sp, err := colorAt(tuple, 2)
	if err != nil {
		return nil, err
	}
	ctermFg, err := intAt(tuple, 3)
	if err != nil {
		return nil, err
	}
	ctermBg, err := intAt(tuple, 4)
	if err != nil {
		return nil, err
	}
	return DefaultColorsSet{
		Fg:      fg,
		Bg:      bg,
		Sp:      sp,
		CtermFg: int(ctermFg),
		CtermBg: int(ctermBg),
	}, nil
}

func decodeOptionSet(tuple []interface{}) (Event, error) {
	name, err := stringAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	if len(tuple) < 2 {
		return nil, fmt.Errorf("option_set missing value")
	}
	return OptionSet{Name: name, Value: tuple[1]}, nil
}

func decodeModeChange(tuple []interface{}) (Event, error) {
	mode, err := stringAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	idx, err := intAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	return ModeChange{Mode: mode, Index: int(idx)}, nil
}

func decodePopupmenuShow(tuple []interface{}) (Event, error) {
	rawItems, err := arrayAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	items := make([]PopupmenuItem, 0, len(rawItems))
	for i, rawItem := range rawItems {
		fields, ok := rawItem.([]interface{})
		if !ok || len(fields) < 4 {
			return nil, fmt.Errorf("item %d is not a [word, kind, menu, info] tuple", i)
		}
		var item PopupmenuItem
		for j, dst := range []*string{&item.Word, &item.Kind, &item.Menu, &item.Info} {
			s, ok := fields[j].(string)
			if !ok {
				return nil, fmt.Errorf("item %d field %d is %T, want string", i, j, fields[j])
			}
			*dst = s
		}
		items = append(items, item)
	}

	selected, err := optIntAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	row, err := intAt(tuple, 2)
	if err != nil {
		return nil, err
	}
	col, err := intAt(tuple, 3)
	if err != nil {
		return nil, err
	}
	gridID := int64(grid.DefaultGridID)
	if len(tuple) > 4 {
		gridID, err = intAt(tuple, 4)
		if err != nil {
			return nil, err
		}
	}
	return PopupmenuShow{
		Items:    items,
		Selected: selected,
		Row:      int(row),
		Col:      int(col),
		Grid:     gridID,
	}, nil
}

func decodeCmdlineShow(tuple []interface{}) (Event, error) {
	rawContent, err := arrayAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	content := make([]CmdlineChunk, 0, len(rawContent))
	for i, rawChunk := range rawContent {
		pair, ok := rawChunk.([]interface{})
		if !ok || len(pair) < 2 {
			return nil, fmt.Errorf("content %d is not an [attrs, text] pair", i)
		}
		hlID, err := asInt(pair[0])
		if err != nil {
			// Older producers send an attribute map instead of an id.
			hlID = 0
		}
		text, ok := pair[1].(string)
		if !ok {
			return nil, fmt.Errorf("content %d text is %T, want string", i, pair[1])
		}
		content = append(content, CmdlineChunk{HlID: hlID, Text: text})
	}

	pos, err := intAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	firstc, err := stringAt(tuple, 2)
	if err != nil {
		return nil, err
	}
	prompt, err := stringAt(tuple, 3)
	if err != nil {
		return nil, err
	}
	indent, err := intAt(tuple, 4)
	if err != nil {
		return nil, err
	}
	level, err := intAt(tuple, 5)
	if err != nil {
		return nil, err
	}
	return CmdlineShow{
		Content: content,
		Pos:     int(pos),
		Firstc:  firstc,
		Prompt:  prompt,
		Indent:  int(indent),
		Level:   int(level),
	}, nil
}

func decodeCmdlinePos(tuple []interface{}) (Event, error) {
	pos, err := intAt(tuple, 0)
	if err != nil {
		return nil, err
	}
	level, err := intAt(tuple, 1)
	if err != nil {
		return nil, err
	}
	return CmdlinePos{Pos: int(pos), Level: int(level)}, nil
}

// asInt accepts the integer representations the msgpack layer produces.
func asInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("value is %T, want integer", v)
	}
}

func intAt(tuple []interface{}, i int) (int64, error) {
	if i >= len(tuple) {
		return 0, fmt.Errorf("tuple too short: no field %d", i)
	}
	v, err := asInt(tuple[i])
	if err != nil {
		return 0, fmt.Errorf("field %d: %w", i, err)
	}
	return v, nil
}

// optIntAt decodes an "unsigned or -1 meaning absent" field. -1 becomes
// nil; any other negative value is a decode error, not an absence.
func optIntAt(tuple []interface{}, i int) (*int, error) {
	v, err := intAt(tuple, i)
	if err != nil {
		return nil, err
	}
	if v == -1 {
		return nil, nil
	}
	if v < -1 {
		return nil, fmt.Errorf("field %d: %d is neither unsigned nor -1", i, v)
	}
	n := int(v)
	return &n, nil
}

func stringAt(tuple []interface{}, i int) (string, error) {
	if i >= len(tuple) {
		return "", fmt.Errorf("tuple too short: no field %d", i)
	}
	s, ok := tuple[i].(string)
	if !ok {
		return "", fmt.Errorf("field %d is %T, want string", i, tuple[i])
	}
	return s, nil
}

func arrayAt(tuple []interface{}, i int) ([]interface{}, error) {
	if i >= len(tuple) {
		return nil, fmt.Errorf("tuple too short: no field %d", i)
	}
	a, ok := tuple[i].([]interface{})
	if !ok {
		return nil, fmt.Errorf("field %d is %T, want array", i, tuple[i])
	}
	return a, nil
}

func asMap(v interface{}) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("value is %T, want map", v)
	}
	return m, nil
}

func mapAt(tuple []interface{}, i int) (map[string]interface{}, error) {
	if i >= len(tuple) {
		return nil, fmt.Errorf("tuple too short: no field %d", i)
	}
	m, err := asMap(tuple[i])
	if err != nil {
		return nil, fmt.Errorf("field %d: %w", i, err)
	}
	return m, nil
}

// colorAt decodes a packed 0xRRGGBB color, with -1 meaning absent.
func colorAt(tuple []interface{}, i int) (*core.Color, error) {
	v, err := intAt(tuple, i)
	if err != nil {
		return nil, err
	}
	if v == -1 {
		return nil, nil
	}
	if v < 0 {
		return nil, fmt.Errorf("field %d: %d is neither a color nor -1", i, v)
	}
	c := core.ColorFromRGB24(uint64(v))
	return &c, nil
}
