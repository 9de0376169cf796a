package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"lorgn/interpreter-go/pkg/ast"
)

// Format identifies the encoding of a tree document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatForPath picks the document format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("decode: %s: unsupported extension (want .json, .yml or .yaml)", path)
	}
}

// DecodeModule parses a Module document.
func DecodeModule(data []byte, format Format) (*ast.Module, error) {
	raw, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	node, err := decodeNode(raw, "$")
	if err != nil {
		return nil, err
	}
	mod, ok := node.(*ast.Module)
	if !ok {
		return nil, fmt.Errorf("decode: $: expected Module, got %s", node.NodeType())
	}
	return mod, nil
}

// DecodeExpression parses a single expression document.
func DecodeExpression(data []byte, format Format) (ast.Expression, error) {
	raw, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	return decodeExpr(raw, "$")
}

func decodeDocument(data []byte, format Format) (map[string]any, error) {
	var raw any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode: json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode: yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode: unsupported format %s", format)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode: $: document must be an object")
	}
	return obj, nil
}

func decodeNode(node map[string]any, at string) (ast.Node, error) {
	typ, ok := node["type"].(string)
	if !ok {
		return nil, fmt.Errorf("decode: %s.type: missing node type", at)
	}
	switch ast.NodeType(typ) {
	case ast.NodeModule:
		rawItems, err := listField(node, "items", at, true)
		if err != nil {
			return nil, err
		}
		items := make([]ast.Item, 0, len(rawItems))
		for i, raw := range rawItems {
			item, err := decodeItem(raw, fmt.Sprintf("%s.items[%d]", at, i))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return ast.NewModule(items), nil
	case ast.NodeExport:
		names, err := nameList(node, "names", at)
		if err != nil {
			return nil, err
		}
		return ast.NewExport(names), nil
	case ast.NodeImport:
		module, err := stringField(node, "module", at)
		if err != nil {
			return nil, err
		}
		items, err := nameList(node, "items", at)
		if err != nil {
			return nil, err
		}
		return ast.NewImport(module, items), nil
	case ast.NodeFunctionDefinition:
		name, err := stringField(node, "name", at)
		if err != nil {
			return nil, err
		}
		params, err := nameList(node, "parameters", at)
		if err != nil {
			return nil, err
		}
		var body *ast.Block
		if raw, ok := node["body"]; ok && raw != nil {
			expr, err := decodeExpr(raw, at+".body")
			if err != nil {
				return nil, err
			}
			block, ok := expr.(*ast.Block)
			if !ok {
				block = ast.NewBlock([]ast.Expression{expr})
			}
			body = block
		}
		return ast.NewFunctionDefinition(name, params, body), nil
	case ast.NodeBlock:
		exprs, err := exprList(node, "expressions", at)
		if err != nil {
			return nil, err
		}
		return ast.NewBlock(exprs), nil
	case ast.NodeAssignment:
		name, err := stringField(node, "name", at)
		if err != nil {
			return nil, err
		}
		value, err := exprField(node, "value", at, true)
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(name, value), nil
	case ast.NodeInvoke:
		name, err := stringField(node, "name", at)
		if err != nil {
			return nil, err
		}
		return ast.NewInvoke(name), nil
	case ast.NodeStringLiteral:
		value, err := stringField(node, "value", at)
		if err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(value), nil
	case ast.NodeIntegerLiteral:
		value, err := toInt32(node["value"], at+".value")
		if err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(value), nil
	case ast.NodeFloatLiteral:
		value, err := toFloat32(node["value"], at+".value")
		if err != nil {
			return nil, err
		}
		return ast.NewFloatLiteral(value), nil
	case ast.NodeBooleanLiteral:
		value, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("decode: %s.value: expected boolean", at)
		}
		return ast.NewBooleanLiteral(value), nil
	case ast.NodeListLiteral:
		elems, err := exprList(node, "elements", at)
		if err != nil {
			return nil, err
		}
		return ast.NewListLiteral(elems), nil
	case ast.NodeMapLiteral:
		rawEntries, err := listField(node, "entries", at, false)
		if err != nil {
			return nil, err
		}
		entries := make([]*ast.MapEntry, 0, len(rawEntries))
		for i, raw := range rawEntries {
			where := fmt.Sprintf("%s.entries[%d]", at, i)
			obj, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("decode: %s: expected object", where)
			}
			key, err := stringField(obj, "key", where)
			if err != nil {
				return nil, err
			}
			value, err := exprField(obj, "value", where, true)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.NewMapEntry(key, value))
		}
		return ast.NewMapLiteral(entries), nil
	case ast.NodeFunctionCall:
		rawPath, ok := node["path"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode: %s.path: expected object with module and item", at)
		}
		module, err := stringField(rawPath, "module", at+".path")
		if err != nil {
			return nil, err
		}
		item, err := stringField(rawPath, "item", at+".path")
		if err != nil {
			return nil, err
		}
		args, err := exprList(node, "arguments", at)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionCall(ast.NewPath(module, item), args), nil
	case ast.NodeCondition:
		test, err := exprField(node, "test", at, true)
		if err != nil {
			return nil, err
		}
		whenTrue, err := exprField(node, "whenTrue", at, true)
		if err != nil {
			return nil, err
		}
		whenFalse, err := exprField(node, "whenFalse", at, true)
		if err != nil {
			return nil, err
		}
		return ast.NewCondition(test, whenTrue, whenFalse), nil
	case ast.NodeLoop:
		body, err := exprField(node, "body", at, true)
		if err != nil {
			return nil, err
		}
		return ast.NewLoop(body), nil
	case ast.NodeReturn:
		arg, err := exprField(node, "argument", at, false)
		if err != nil {
			return nil, err
		}
		return ast.NewReturn(arg), nil
	case ast.NodeBreak:
		arg, err := exprField(node, "argument", at, false)
		if err != nil {
			return nil, err
		}
		return ast.NewBreak(arg), nil
	default:
		return nil, fmt.Errorf("decode: %s.type: unsupported node type %q", at, typ)
	}
}

func decodeExpr(raw any, at string) (ast.Expression, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode: %s: expected node object", at)
	}
	node, err := decodeNode(obj, at)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("decode: %s: %s is not an expression", at, node.NodeType())
	}
	return expr, nil
}

func decodeItem(raw any, at string) (ast.Item, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode: %s: expected node object", at)
	}
	node, err := decodeNode(obj, at)
	if err != nil {
		return nil, err
	}
	item, ok := node.(ast.Item)
	if !ok {
		return nil, fmt.Errorf("decode: %s: %s is not a module item", at, node.NodeType())
	}
	return item, nil
}

func stringField(node map[string]any, key, at string) (string, error) {
	value, ok := node[key].(string)
	if !ok {
		return "", fmt.Errorf("decode: %s.%s: expected string", at, key)
	}
	return value, nil
}

func listField(node map[string]any, key, at string, required bool) ([]any, error) {
	raw, present := node[key]
	if !present || raw == nil {
		if required {
			return nil, fmt.Errorf("decode: %s.%s: missing list", at, key)
		}
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("decode: %s.%s: expected list", at, key)
	}
	return list, nil
}

func nameList(node map[string]any, key, at string) ([]ast.Name, error) {
	raw, err := listField(node, key, at, false)
	if err != nil {
		return nil, err
	}
	names := make([]ast.Name, 0, len(raw))
	for i, item := range raw {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("decode: %s.%s[%d]: expected string", at, key, i)
		}
		names = append(names, name)
	}
	return names, nil
}

func exprList(node map[string]any, key, at string) ([]ast.Expression, error) {
	raw, err := listField(node, key, at, false)
	if err != nil {
		return nil, err
	}
	exprs := make([]ast.Expression, 0, len(raw))
	for i, item := range raw {
		expr, err := decodeExpr(item, fmt.Sprintf("%s.%s[%d]", at, key, i))
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func exprField(node map[string]any, key, at string, required bool) (ast.Expression, error) {
	raw, present := node[key]
	if !present || raw == nil {
		if required {
			return nil, fmt.Errorf("decode: %s.%s: missing expression", at, key)
		}
		return nil, nil
	}
	return decodeExpr(raw, at+"."+key)
}

func toInt32(raw any, at string) (int32, error) {
	var v int64
	switch n := raw.(type) {
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("decode: %s: expected integer, got %s", at, n)
		}
		v = parsed
	case int:
		v = int64(n)
	case int64:
		v = n
	case uint64:
		if n > math.MaxInt32 {
			return 0, fmt.Errorf("decode: %s: %d overflows a 32-bit integer", at, n)
		}
		v = int64(n)
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("decode: %s: expected integer, got %v", at, n)
		}
		v = int64(n)
	default:
		return 0, fmt.Errorf("decode: %s: expected integer", at)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("decode: %s: %d overflows a 32-bit integer", at, v)
	}
	return int32(v), nil
}

func toFloat32(raw any, at string) (float32, error) {
	switch n := raw.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("decode: %s: expected number, got %s", at, n)
		}
		return float32(parsed), nil
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	case int64:
		return float32(n), nil
	case uint64:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("decode: %s: expected number", at)
	}
}
