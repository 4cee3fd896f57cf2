// Package mocks holds testify mocks of the storage ports, in the expecter
// style mockery produces.
package mocks

import (
	"context"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"github.com/stretchr/testify/mock"
)

var _ ports.UserRepo = (*MockUserRepo)(nil)

// MockUserRepo is a mock of ports.UserRepo.
type MockUserRepo struct {
	mock.Mock
}

// NewMockUserRepo creates a mock whose expectations are asserted on test
// cleanup.
func NewMockUserRepo(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepo {
	m := &MockUserRepo{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MockUserRepo_Expecter struct {
	mock *mock.Mock
}

func (_m *MockUserRepo) EXPECT() *MockUserRepo_Expecter {
	return &MockUserRepo_Expecter{mock: &_m.Mock}
}

func userResult(ret mock.Arguments) (*model.User, error) {
	var u *model.User
	if v := ret.Get(0); v != nil {
		u = v.(*model.User)
	}
	return u, ret.Error(1)
}

// ─── Create ───────────────────────────────────────────────────────────────────

func (_m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	return _m.Called(ctx, u).Error(0)
}

type MockUserRepo_Create_Call struct {
	*mock.Call
}

func (_e *MockUserRepo_Expecter) Create(ctx any, u any) *MockUserRepo_Create_Call {
	return &MockUserRepo_Create_Call{Call: _e.mock.On("Create", ctx, u)}
}

func (_c *MockUserRepo_Create_Call) Return(err error) *MockUserRepo_Create_Call {
	_c.Call.Return(err)
	return _c
}

// ─── GetByID ──────────────────────────────────────────────────────────────────

func (_m *MockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return userResult(_m.Called(ctx, id))
}

type MockUserRepo_GetByID_Call struct {
	*mock.Call
}

func (_e *MockUserRepo_Expecter) GetByID(ctx any, id any) *MockUserRepo_GetByID_Call {
	return &MockUserRepo_GetByID_Call{Call: _e.mock.On("GetByID", ctx, id)}
}

func (_c *MockUserRepo_GetByID_Call) Return(u *model.User, err error) *MockUserRepo_GetByID_Call {
	_c.Call.Return(u, err)
	return _c
}

// ─── GetByEmail ───────────────────────────────────────────────────────────────

func (_m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return userResult(_m.Called(ctx, email))
}

type MockUserRepo_GetByEmail_Call struct {
	*mock.Call
}

func (_e *MockUserRepo_Expecter) GetByEmail(ctx any, email any) *MockUserRepo_GetByEmail_Call {
	return &MockUserRepo_GetByEmail_Call{Call: _e.mock.On("GetByEmail", ctx, email)}
}

func (_c *MockUserRepo_GetByEmail_Call) Return(u *model.User, err error) *MockUserRepo_GetByEmail_Call {
	_c.Call.Return(u, err)
	return _c
}

// ─── List ─────────────────────────────────────────────────────────────────────

func (_m *MockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	ret := _m.Called(ctx)
	var users []*model.User
	if v := ret.Get(0); v != nil {
		users = v.([]*model.User)
	}
	return users, ret.Error(1)
}

type MockUserRepo_List_Call struct {
	*mock.Call
}

func (_e *MockUserRepo_Expecter) List(ctx any) *MockUserRepo_List_Call {
	return &MockUserRepo_List_Call{Call: _e.mock.On("List", ctx)}
}

func (_c *MockUserRepo_List_Call) Return(users []*model.User, err error) *MockUserRepo_List_Call {
	_c.Call.Return(users, err)
	return _c
}

// ─── Update ───────────────────────────────────────────────────────────────────

func (_m *MockUserRepo) Update(ctx context.Context, u *model.User) error {
	return _m.Called(ctx, u).Error(0)
}

type MockUserRepo_Update_Call struct {
	*mock.Call
}

func (_e *MockUserRepo_Expecter) Update(ctx any, u any) *MockUserRepo_Update_Call {
	return &MockUserRepo_Update_Call{Call: _e.mock.On("Update", ctx, u)}
}

func (_c *MockUserRepo_Update_Call) Return(err error) *MockUserRepo_Update_Call {
	_c.Call.Return(err)
	return _c
}

// ─── Delete ───────────────────────────────────────────────────────────────────

func (_m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return _m.Called(ctx, id).Error(0)
}

type MockUserRepo_Delete_Call struct {
	*mock.Call
}

func (_e *MockUserRepo_Expecter) Delete(ctx any, id any) *MockUserRepo_Delete_Call {
	return &MockUserRepo_Delete_Call{Call: _e.mock.On("Delete", ctx, id)}
}

func (_c *MockUserRepo_Delete_Call) Return(err error) *MockUserRepo_Delete_Call {
	_c.Call.Return(err)
	return _c
}
