package utils

//run redis
//docker run -p 6379:6379 -d redis

//run postgres
//docker run -p 5432:5432 -e POSTGRES_PASSWORD=postgres -v caseDocData:/var/lib/postgresql/data -d postgres

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
