package miro

import (
	"context"
	"fmt"

	"github.com/mirotools/miro-mcp/pkg/types"
)

type GroupShapesTool struct {
	session *Session
}

func NewGroupShapesTool(session *Session) *GroupShapesTool {
	return &GroupShapesTool{session: session}
}

func (t *GroupShapesTool) Name() string {
	return "group_shapes"
}

func (t *GroupShapesTool) Description() string {
	return "Group multiple shapes together on a board"
}

func (t *GroupShapesTool) Params() []types.Param {
	return []types.Param{
		{Name: "board_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the board",
		}},
		{Name: "item_ids", Spec: types.Schema{
			Type:        "array",
			Description: "List of item IDs to group together",
			Items:       &types.Schema{Type: "string"},
		}},
	}
}

func (t *GroupShapesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}

	boardID := stringArg(args, "board_id")
	if boardID == "" {
		return errResult("board_id parameter is required"), nil
	}

	raw, _ := args["item_ids"].([]interface{})
	itemIDs := make([]string, 0, len(raw))
	for _, v := range raw {
		itemIDs = append(itemIDs, fmt.Sprint(v))
	}
	if len(itemIDs) < 2 {
		return errResult("item_ids must be a list with at least 2 item IDs"), nil
	}

	group, err := client.GroupShapes(ctx, boardID, itemIDs)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return map[string]interface{}{
		"success": true,
		"group":   group,
		"message": fmt.Sprintf("Successfully grouped %d shapes", len(itemIDs)),
	}, nil
}

type UngroupShapesTool struct {
	session *Session
}

func NewUngroupShapesTool(session *Session) *UngroupShapesTool {
	return &UngroupShapesTool{session: session}
}

func (t *UngroupShapesTool) Name() string {
	return "ungroup_shapes"
}

func (t *UngroupShapesTool) Description() string {
	return "Ungroup shapes by removing them from a group/frame"
}

func (t *UngroupShapesTool) Params() []types.Param {
	return []types.Param{
		{Name: "board_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the board",
		}},
		{Name: "group_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the group/frame to ungroup",
		}},
	}
}

func (t *UngroupShapesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}

	boardID := stringArg(args, "board_id")
	groupID := stringArg(args, "group_id")
	if boardID == "" || groupID == "" {
		return errResult("board_id and group_id are required"), nil
	}

	result, err := client.UngroupShapes(ctx, boardID, groupID)
	if err != nil {
		return errResult(err.Error()), nil
	}

	message := "Shapes ungrouped successfully"
	if m, ok := result.(map[string]interface{}); ok {
		if s, ok := m["message"].(string); ok {
			message = s
		}
	}
	return map[string]interface{}{
		"success": true,
		"message": message,
	}, nil
}
