package repository

// Factory describes access to the domain repositories.
type Factory interface {
	Users() UserRepository
	Customers() CustomerRepository
	Loans() LoanRepository
	Schedules() ScheduleRepository
	Payments() PaymentRepository
}
