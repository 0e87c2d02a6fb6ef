package cpu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	cpu, tb := newTestCpu(DefaultLayout())

	assert.NoError(cpu.push(ctx, 0x1234))
	assert.NoError(cpu.push(ctx, -5))
	assert.Equal(int32(998), cpu.SP)
	assert.Equal(int32(0x1234), tb.cells[999])
	assert.Equal(int32(-5), tb.cells[998])

	val, err := cpu.Peek(ctx)
	assert.NoError(err)
	assert.Equal(int32(-5), val)
	assert.Equal(int32(998), cpu.SP)

	val, err = cpu.pop(ctx)
	assert.NoError(err)
	assert.Equal(int32(-5), val)

	val, err = cpu.pop(ctx)
	assert.NoError(err)
	assert.Equal(int32(0x1234), val)
	assert.Equal(int32(1000), cpu.SP)
}

func TestStack_Floor(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(DefaultLayout())
	assert.Equal(int32(0), cpu.stackFloor())

	cpu.Mode = MODE_KERNEL
	assert.Equal(USER_LIMIT, cpu.stackFloor())
}

func TestStack_Overflow(t *testing.T) {
	table := [](struct {
		Mode Mode
		SP   int32
	}){
		{Mode: MODE_USER, SP: 0},
		{Mode: MODE_KERNEL, SP: USER_LIMIT},
	}

	for _, entry := range table {
		assert := assert.New(t)

		cpu, tb := newTestCpu(DefaultLayout())
		cpu.Mode = entry.Mode
		cpu.SP = entry.SP

		err := cpu.push(context.Background(), 1)
		assert.ErrorIs(err, ErrStackOverflow, entry.Mode)
		assert.Equal(entry.SP, cpu.SP, entry.Mode)
		assert.Empty(tb.requests, entry.Mode)
	}
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	cpu, tb := newTestCpu(DefaultLayout())
	cpu.Mode = MODE_KERNEL
	cpu.SP = SYSTEM_STACK

	_, err := cpu.pop(context.Background())
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(SYSTEM_STACK, cpu.SP)
	assert.Empty(tb.requests)
}

func TestStack_Crossing(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	cpu, tb := newTestCpu(DefaultLayout())

	// User stack empty: the next pop reads the system region.
	_, err := cpu.pop(ctx)
	assert.ErrorIs(err, ErrPrivilege)
	assert.Equal(USER_LIMIT, cpu.SP)

	cpu.SP = SYSTEM_STACK
	err = cpu.push(ctx, 1)
	assert.ErrorIs(err, ErrPrivilege)
	assert.Equal(SYSTEM_STACK, cpu.SP)

	assert.Empty(tb.requests)
}
