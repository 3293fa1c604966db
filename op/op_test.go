package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		operands int
	}{
		{LoadNull, "LOAD_NULL", 0},
		{LoadFunction, "LOAD_FUNCTION", 1},
		{RotateReverse, "ROTATE_REVERSE", 1},
		{GetLocal, "GET_LOCAL", 1},
		{Call, "CALL", 1},
		{Branch, "BRANCH", 1},
		{ConditionalBranch, "CONDITIONAL_BRANCH", 2},
		{IndexSet, "INDEX_SET", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.code, info.Code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operands, info.OperandCount)
		})
	}
}

func TestImmediates(t *testing.T) {
	for _, code := range []Code{LoadBool, LoadFloat, LoadString} {
		require.True(t, GetInfo(code).Immediate, GetInfo(code).Name)
	}
	for _, code := range []Code{LoadNull, Call, Branch, GetLocal} {
		require.False(t, GetInfo(code).Immediate, GetInfo(code).Name)
	}
}

func TestIsTerminator(t *testing.T) {
	require.True(t, IsTerminator(Branch))
	require.True(t, IsTerminator(ConditionalBranch))
	require.True(t, IsTerminator(Return))
	require.False(t, IsTerminator(Call))
	require.False(t, IsTerminator(LoadNull))
}
