package wire

import (
	"encoding/json"

	"github.com/google/uuid"
)

// CommandKind 是发往后端的命令名。
type CommandKind string

const (
	CmdStrategiesRequest      CommandKind = "strategies_request"
	CmdAppRequest             CommandKind = "app_request"
	CmdChartRequest           CommandKind = "chart_request"
	CmdStrategyFromLogRequest CommandKind = "strategy_from_log_request"
	CmdOverallRequest         CommandKind = "overall_request"
	CmdOverallFromLogRequest  CommandKind = "overall_from_log_request"
	CmdRunYAML                CommandKind = "run_yaml"
	CmdReadFromDir            CommandKind = "read_from_dir"
)

// Family groups commands whose replies share a correlation slot.
type Family int

const (
	FamilyNone Family = iota
	FamilyApp
	FamilyStrategy
	FamilyOverall
)

func (k CommandKind) Family() Family {
	switch k {
	case CmdStrategiesRequest, CmdAppRequest, CmdReadFromDir, CmdRunYAML:
		return FamilyApp
	case CmdChartRequest, CmdStrategyFromLogRequest:
		return FamilyStrategy
	case CmdOverallRequest, CmdOverallFromLogRequest:
		return FamilyOverall
	default:
		return FamilyNone
	}
}

// FamilyOf maps an inbound event scope onto the command family that solicits it.
func FamilyOf(kind Kind) Family {
	if kind == KindStrategyList {
		return FamilyApp
	}
	switch kind.Scope() {
	case ScopeStrategy:
		return FamilyStrategy
	case ScopeOverall:
		return FamilyOverall
	default:
		return FamilyNone
	}
}

type CommandParams struct {
	BatchID    string `json:"batch_id"`
	StrategyID string `json:"strategy_id"`
	Symbol     string `json:"symbol"`
	PeriodS    int64  `json:"period_s"`
	Path       string `json:"path,omitempty"`
}

type Command struct {
	Type          CommandKind    `json:"type"`
	ID            string         `json:"id"`
	CorrelationID string         `json:"correlation_id"`
	Params        *CommandParams `json:"params,omitempty"`
}

// NewCommand 分配 ID；correlation id 与 ID 相同，回包按它对号。
func NewCommand(kind CommandKind, params *CommandParams) Command {
	id := uuid.NewString()
	return Command{Type: kind, ID: id, CorrelationID: id, Params: params}
}

// Encode marshals the command, sending it under wireName when non-empty.
func (c Command) Encode(wireName string) ([]byte, error) {
	if wireName != "" {
		c.Type = CommandKind(wireName)
	}
	return json.Marshal(c)
}
