package miro

import (
	"context"
	"fmt"

	"github.com/mirotools/miro-mcp/pkg/types"
)

// ShapeTypes are the shape_type values the create endpoint accepts.
var ShapeTypes = []string{"rectangle", "circle", "triangle", "star", "arrow", "rhombus", "octagon", "hexagon"}

// buildStyle collects the style arguments into the display-case style
// map the client translates for the API.
func buildStyle(args map[string]interface{}) (map[string]interface{}, error) {
	style := map[string]interface{}{}
	if c := stringArg(args, "fillColor"); c != "" {
		style["fillColor"] = c
	}
	if c := stringArg(args, "borderColor"); c != "" {
		style["borderColor"] = c
	}
	// 0 is a valid border width, only absence is skipped.
	if raw, present := args["borderWidth"]; present && raw != nil {
		w, ok := numberArg(args, "borderWidth")
		if !ok {
			return nil, fmt.Errorf("borderWidth must be a number")
		}
		style["borderWidth"] = w
	}
	return style, nil
}

type CreateShapeTool struct {
	session *Session
}

func NewCreateShapeTool(session *Session) *CreateShapeTool {
	return &CreateShapeTool{session: session}
}

func (t *CreateShapeTool) Name() string {
	return "create_shape"
}

func (t *CreateShapeTool) Description() string {
	return "Create a shape on a Miro board"
}

func (t *CreateShapeTool) Params() []types.Param {
	return []types.Param{
		{Name: "board_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the board",
		}},
		{Name: "shape_type", Spec: types.Schema{
			Type:        "string",
			Description: "Type of shape: rectangle, circle, triangle, star, arrow, etc.",
			Enum:        ShapeTypes,
		}},
		{Name: "x", Spec: types.Schema{
			Type:        "number",
			Description: "X coordinate of the shape position",
		}},
		{Name: "y", Spec: types.Schema{
			Type:        "number",
			Description: "Y coordinate of the shape position",
		}},
		{Name: "width", Spec: types.Schema{
			Type:        "number",
			Description: "Width of the shape",
		}},
		{Name: "height", Spec: types.Schema{
			Type:        "number",
			Description: "Height of the shape",
		}},
		{Name: "fillColor", Optional: true, Spec: types.Schema{
			Type:        "string",
			Description: "Fill color in hex format (e.g., #FF0000)",
		}},
		{Name: "borderColor", Optional: true, Spec: types.Schema{
			Type:        "string",
			Description: "Border color in hex format (e.g., #000000)",
		}},
		{Name: "borderWidth", Optional: true, Spec: types.Schema{
			Type:        "number",
			Description: "Border width in pixels",
		}},
		{Name: "content", Optional: true, Spec: types.Schema{
			Type:        "string",
			Description: "Text content to display in the shape",
		}},
	}
}

func (t *CreateShapeTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}

	boardID := stringArg(args, "board_id")
	shapeType := stringArg(args, "shape_type")
	x, xok := numberArg(args, "x")
	y, yok := numberArg(args, "y")
	width, wok := numberArg(args, "width")
	height, hok := numberArg(args, "height")

	// 0 is a valid coordinate but not a valid extent.
	if boardID == "" || shapeType == "" || !xok || !yok || !wok || width == 0 || !hok || height == 0 {
		return errResult("board_id, shape_type, x, y, width, and height are required"), nil
	}

	style, err := buildStyle(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	shape, err := client.CreateShape(ctx, boardID, shapeType,
		map[string]float64{"x": x, "y": y},
		map[string]float64{"width": width, "height": height},
		style, stringArg(args, "content"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	return map[string]interface{}{
		"success": true,
		"shape":   shape,
	}, nil
}

type UpdateShapeTool struct {
	session *Session
}

func NewUpdateShapeTool(session *Session) *UpdateShapeTool {
	return &UpdateShapeTool{session: session}
}

func (t *UpdateShapeTool) Name() string {
	return "update_shape"
}

func (t *UpdateShapeTool) Description() string {
	return "Update properties of an existing shape"
}

func (t *UpdateShapeTool) Params() []types.Param {
	return []types.Param{
		{Name: "board_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the board",
		}},
		{Name: "item_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the shape item to update",
		}},
		{Name: "x", Optional: true, Spec: types.Schema{
			Type:        "number",
			Description: "New X coordinate (optional)",
		}},
		{Name: "y", Optional: true, Spec: types.Schema{
			Type:        "number",
			Description: "New Y coordinate (optional)",
		}},
		{Name: "width", Optional: true, Spec: types.Schema{
			Type:        "number",
			Description: "New width (optional)",
		}},
		{Name: "height", Optional: true, Spec: types.Schema{
			Type:        "number",
			Description: "New height (optional)",
		}},
		{Name: "fillColor", Optional: true, Spec: types.Schema{
			Type:        "string",
			Description: "New fill color in hex format (optional)",
		}},
		{Name: "borderColor", Optional: true, Spec: types.Schema{
			Type:        "string",
			Description: "New border color in hex format (optional)",
		}},
		{Name: "borderWidth", Optional: true, Spec: types.Schema{
			Type:        "number",
			Description: "New border width in pixels (optional)",
		}},
		{Name: "content", Optional: true, Spec: types.Schema{
			Type:        "string",
			Description: "New text content (optional)",
		}},
	}
}

func (t *UpdateShapeTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}

	boardID := stringArg(args, "board_id")
	itemID := stringArg(args, "item_id")
	if boardID == "" || itemID == "" {
		return errResult("board_id and item_id are required"), nil
	}

	var position map[string]float64
	if x, ok := numberArg(args, "x"); ok {
		position = map[string]float64{"x": x}
	}
	if y, ok := numberArg(args, "y"); ok {
		if position == nil {
			position = map[string]float64{}
		}
		position["y"] = y
	}

	var geometry map[string]float64
	if w, ok := numberArg(args, "width"); ok {
		geometry = map[string]float64{"width": w}
	}
	if h, ok := numberArg(args, "height"); ok {
		if geometry == nil {
			geometry = map[string]float64{}
		}
		geometry["height"] = h
	}

	var content *string
	if v, ok := args["content"].(string); ok {
		content = &v
	}

	style, err := buildStyle(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	shape, err := client.UpdateShape(ctx, boardID, itemID, position, geometry, style, content)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return map[string]interface{}{
		"success": true,
		"shape":   shape,
	}, nil
}

type DeleteShapeTool struct {
	session *Session
}

func NewDeleteShapeTool(session *Session) *DeleteShapeTool {
	return &DeleteShapeTool{session: session}
}

func (t *DeleteShapeTool) Name() string {
	return "delete_shape"
}

func (t *DeleteShapeTool) Description() string {
	return "Delete a shape from a board"
}

func (t *DeleteShapeTool) Params() []types.Param {
	return []types.Param{
		{Name: "board_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the board",
		}},
		{Name: "item_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the shape item to delete",
		}},
	}
}

func (t *DeleteShapeTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}

	boardID := stringArg(args, "board_id")
	itemID := stringArg(args, "item_id")
	if boardID == "" || itemID == "" {
		return errResult("board_id and item_id are required"), nil
	}

	if _, err := client.DeleteShape(ctx, boardID, itemID); err != nil {
		return errResult(err.Error()), nil
	}
	return map[string]interface{}{
		"success": true,
		"message": "Shape deleted successfully",
	}, nil
}
