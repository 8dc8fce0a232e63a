// Package mocks provides test doubles for the analysis store ports.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/sells-group/daynight/internal/model"
)

// MockRegionResolver is a mock type for the RegionResolver interface.
type MockRegionResolver struct {
	mock.Mock
}

// RegionByName provides a mock function with given fields: ctx, name
func (_m *MockRegionResolver) RegionByName(ctx context.Context, name string) (*model.Region, error) {
	ret := _m.Called(ctx, name)

	if len(ret) == 0 {
		panic("no return value specified for RegionByName")
	}

	var r0 *model.Region
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Region, error)); ok {
		return rf(ctx, name)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.Region); ok {
		r0 = rf(ctx, name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Region)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockRegionResolver creates a new instance of MockRegionResolver. It also
// registers a cleanup function to assert the mocks expectations.
func NewMockRegionResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRegionResolver {
	m := &MockRegionResolver{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockStationLocator is a mock type for the StationLocator interface.
type MockStationLocator struct {
	mock.Mock
}

// StationsInRegion provides a mock function with given fields: ctx, regionID
func (_m *MockStationLocator) StationsInRegion(ctx context.Context, regionID int64) ([]model.Station, error) {
	ret := _m.Called(ctx, regionID)

	if len(ret) == 0 {
		panic("no return value specified for StationsInRegion")
	}

	var r0 []model.Station
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) ([]model.Station, error)); ok {
		return rf(ctx, regionID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) []model.Station); ok {
		r0 = rf(ctx, regionID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Station)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, regionID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockStationLocator creates a new instance of MockStationLocator. It also
// registers a cleanup function to assert the mocks expectations.
func NewMockStationLocator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStationLocator {
	m := &MockStationLocator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockMeasurementFetcher is a mock type for the MeasurementFetcher interface.
type MockMeasurementFetcher struct {
	mock.Mock
}

// FindMeasurements provides a mock function with given fields: ctx, filter
func (_m *MockMeasurementFetcher) FindMeasurements(ctx context.Context, filter model.MeasurementFilter) ([]model.MeasurementDocument, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for FindMeasurements")
	}

	var r0 []model.MeasurementDocument
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.MeasurementFilter) ([]model.MeasurementDocument, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.MeasurementFilter) []model.MeasurementDocument); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.MeasurementDocument)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.MeasurementFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockMeasurementFetcher creates a new instance of MockMeasurementFetcher.
// It also registers a cleanup function to assert the mocks expectations.
func NewMockMeasurementFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMeasurementFetcher {
	m := &MockMeasurementFetcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
