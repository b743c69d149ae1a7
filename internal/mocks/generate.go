package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/source --output domain/source --outpkg sourcemock --filename provider_mock.go
