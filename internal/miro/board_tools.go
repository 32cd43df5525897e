package miro

import (
	"context"

	"github.com/mirotools/miro-mcp/pkg/types"
)

type GetBoardTool struct {
	session *Session
}

func NewGetBoardTool(session *Session) *GetBoardTool {
	return &GetBoardTool{session: session}
}

func (t *GetBoardTool) Name() string {
	return "get_board"
}

func (t *GetBoardTool) Description() string {
	return "Get information about a Miro board including metadata, name, description, and settings"
}

func (t *GetBoardTool) Params() []types.Param {
	return []types.Param{
		{Name: "board_id", Spec: types.Schema{
			Type:        "string",
			Description: "The ID of the board",
		}},
	}
}

func (t *GetBoardTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, err
	}
	boardID := stringArg(args, "board_id")
	if boardID == "" {
		return errResult("board_id is required"), nil
	}
	board, err := client.GetBoard(ctx, boardID)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return map[string]interface{}{
		"success": true,
		"board":   board,
	}, nil
}
