package service

import (
	"context"
	"errors"
	"testing"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWrappedDispatcherRoutesSolana(t *testing.T) {
	creator := new(mockCreator)
	want := &entity.WrappedTransaction{Chain: entity.ChainSolana, Signature: "5sig"}
	creator.On("CreateWrapped", mock.Anything, "payer", []byte{1}).Return(want, nil)

	d := NewWrappedDispatcher(creator, nil, logger.Nop())
	got, err := d.CreateWrapped(context.Background(), entity.ChainSolana, "payer", []byte{1})
	require.NoError(t, err)
	assert.Same(t, want, got)
	creator.AssertExpectations(t)
}

func TestWrappedDispatcherUnsupportedChains(t *testing.T) {
	creator := new(mockCreator)
	d := NewWrappedDispatcher(creator, nil, logger.Nop())

	for _, chain := range []entity.ChainID{entity.ChainEthereum, entity.ChainBSC, entity.ChainTerra, entity.ChainID(99)} {
		_, err := d.CreateWrapped(context.Background(), chain, "payer", []byte{1})
		assert.ErrorIs(t, err, entity.ErrUnsupportedChain, chain.String())
	}
	creator.AssertNotCalled(t, "CreateWrapped", mock.Anything, mock.Anything, mock.Anything)

	unconfigured := NewWrappedDispatcher(nil, nil, logger.Nop())
	_, err := unconfigured.CreateWrapped(context.Background(), entity.ChainSolana, "payer", []byte{1})
	assert.ErrorIs(t, err, entity.ErrUnsupportedChain)
}

func TestWrappedDispatcherPropagatesErrors(t *testing.T) {
	creator := new(mockCreator)
	creator.On("CreateWrapped", mock.Anything, mock.Anything, mock.Anything).Return(nil, entity.ErrInvalidVAA)

	d := NewWrappedDispatcher(creator, nil, logger.Nop())
	_, err := d.CreateWrapped(context.Background(), entity.ChainSolana, "payer", []byte{1})
	assert.True(t, errors.Is(err, entity.ErrInvalidVAA))
}
