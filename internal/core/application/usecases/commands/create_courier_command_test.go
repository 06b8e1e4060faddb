package commands_test

import (
	"errors"
	"testing"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateCourierCommand(t *testing.T) {
	t.Run("should build command from valid input", func(t *testing.T) {
		id := kernel.NewUUID()

		cmd, err := commands.NewCreateCourierCommand(id, " Ravi ", "98200 11111", 19.07, 72.87)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, id, cmd.CourierID())
		assert.Equal(t, "Ravi", cmd.Name())
		assert.Equal(t, "98200 11111", cmd.Mobile())
		assert.InDelta(t, 19.07, cmd.Position().Latitude(), 1e-9)
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		_, err := commands.NewCreateCourierCommand(kernel.UUID{}, "", " ", 95, 0)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, commands.ErrNameIsRequired)
		require.ErrorIs(t, err, commands.ErrMobileIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.CreateCourierCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateCourierCommandIsNotConstructed)
	})
}

func TestCreateCourierCommandHandler_Handle(t *testing.T) {
	t.Run("should persist an offline courier", func(t *testing.T) {
		// Given
		ctx := t.Context()
		cmd, err := commands.NewCreateCourierCommand(kernel.NewUUID(), "Asha", "98200 22222", 19.07, 72.87)
		require.NoError(t, err)

		repo := new(MockCourierRepository)
		uow := new(MockUoW)
		factory := new(MockCourierUoWFactory)

		var captured *courier.Courier
		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(repo).Once(),
			repo.On("Add", ctx, mock.MatchedBy(func(c *courier.Courier) bool {
				captured = c
				return true
			})).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		handler := commands.NewCreateCourierCommandHandler(factory)

		// When
		got, err := handler.Handle(ctx, cmd)

		// Then
		require.NoError(t, err)
		assert.Same(t, captured, got)
		assert.Equal(t, cmd.CourierID(), got.ID())
		assert.False(t, got.IsOnline())
		factory.AssertExpectations(t)
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("should reject unconstructed command", func(t *testing.T) {
		factory := new(MockCourierUoWFactory)
		handler := commands.NewCreateCourierCommandHandler(factory)

		_, err := handler.Handle(t.Context(), commands.CreateCourierCommand{})

		require.ErrorIs(t, err, commands.ErrCreateCourierCommandIsNotConstructed)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("should return repository error and roll back", func(t *testing.T) {
		ctx := t.Context()
		cmd, err := commands.NewCreateCourierCommand(kernel.NewUUID(), "Asha", "98200 22222", 19.07, 72.87)
		require.NoError(t, err)

		repoErr := errors.New("duplicate key")
		repo := new(MockCourierRepository)
		uow := new(MockUoW)
		factory := new(MockCourierUoWFactory)
		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(repo).Once(),
			repo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).Return(repoErr).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		handler := commands.NewCreateCourierCommandHandler(factory)
		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, repoErr)
		uow.AssertNotCalled(t, "Commit", ctx)
		uow.AssertExpectations(t)
	})

	t.Run("should return begin error", func(t *testing.T) {
		ctx := t.Context()
		cmd, err := commands.NewCreateCourierCommand(kernel.NewUUID(), "Asha", "98200 22222", 19.07, 72.87)
		require.NoError(t, err)

		uow := new(MockUoW)
		factory := new(MockCourierUoWFactory)
		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
		)

		handler := commands.NewCreateCourierCommandHandler(factory)
		_, err = handler.Handle(ctx, cmd)

		require.EqualError(t, err, "begin error")
	})
}
