// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./account.go -destination=../mocks/mock_account_repository.go -package=mocks AccountRepositoryIface
//go:generate mockgen -source=./manager_role.go -destination=../mocks/mock_manager_role_repository.go -package=mocks ManagerRoleRepositoryIface
